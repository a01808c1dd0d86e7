// Copyright (C) 2026 Valence Project
//
// This file is part of valence-go.
//
// valence-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// valence-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with valence-go.  If not, see <https://www.gnu.org/licenses/>.

// Package auth implements the client side of the Valence authentication
// protocol: application and user contexts, redirect URL construction, and
// time-limited request signing.
//
// # The Two Contexts
//
// An AppContext stands for a client application registered with a Valence
// back-end, identified by an application ID and a shared application key.
// A UserContext stands for one calling identity bound to that application:
// either an authenticated end user (user ID plus shared user key, learned
// through the interactive login flow) or the anonymous application-only
// identity.
//
//	app, err := auth.NewAppContext(appID, appKey)
//	if err != nil {
//	    return err
//	}
//
// # Interactive Login
//
// Authenticating a user is a browser round trip. Build the redirect URL,
// send the user's browser there, and hand the callback URL the back-end
// redirects to back to the AppContext:
//
//	loginURL, _ := app.CreateAuthenticationURL("lms.example.edu", "https://app.example.com/cb")
//	// ... user signs in, browser lands on https://app.example.com/cb?x_a=...&x_b=...
//	uc, err := app.CreateUserContext(callbackURL, "lms.example.edu", true)
//
// # Signing Requests
//
// Every API request carries five query parameters: the application ID,
// the user ID, an application signature, a user signature, and a
// timestamp. The signatures are HMAC tokens over the canonical base
// string
//
//	METHOD&lowercased_decoded_path&timestamp
//
// computed with the application key and the user key respectively (the
// user signature is empty for anonymous contexts). UserContext exposes
// the computation three ways:
//
//   - SignQuery for callers assembling requests from parts,
//   - SignRequest as a per-request hook over *http.Request,
//   - CreateAuthenticatedURL for a complete signed URL in one call.
//
// The transport package turns SignRequest into an http.RoundTripper so
// ordinary http.Client usage picks up signing transparently.
//
// # Replay Mitigation and Clock Skew
//
// The timestamp inside the base string lets the back-end reject stale
// requests. A client whose clock drifts outside the server's acceptance
// window receives a 403 whose body names the server clock;
// InterpretResult recognizes that notice and corrects the context's skew
// estimate in place, so the request after the rejected one is stamped
// inside the window again. AdjustSkew sets the estimate directly.
//
// # Session Persistence
//
// Properties flattens a UserContext into a small property set (host, user
// credentials, scheme flag, skew) that can be stored and later rebuilt
// with CreateUserContextFromProperties or RestoreUserContext. The session
// package provides a durable store for these property sets.
//
// # Wire Parameter Names
//
// The protocol reuses the names x_a and x_b with different meanings in
// different flows. The constants in this package keep one set per flow:
//
//	Flow            app id  app sig  user id  user key/sig  timestamp  callback
//	Auth redirect   x_a     x_b      -        -             -          x_target
//	Login callback  -       -        x_a      x_b           -          -
//	Signed request  x_a     x_c      x_b      x_d           x_t        -
package auth
