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

// Package transport plugs Valence request signing into the standard
// net/http client stack.
//
// SigningTransport implements http.RoundTripper: it clones each outgoing
// request, appends the five authentication query parameters for a user
// context, and hands the signed clone to an underlying transport. Wrapping
// the signature step at this layer means every request sent through the
// client carries a timestamp taken at send time, so retries and redirects
// are re-signed instead of replaying a stale signature.
//
// # Usage
//
// The simplest way to use this package is via NewHTTPClient:
//
//	httpClient := transport.NewHTTPClient(userCtx)
//
//	resp, err := httpClient.Get("https://lms.example.edu/d2l/api/versions/")
//	if err != nil {
//	    return err
//	}
//	defer resp.Body.Close()
//
// For more control, wrap an existing transport directly:
//
//	httpClient := &http.Client{
//	    Timeout:   10 * time.Second,
//	    Transport: transport.NewSigningTransport(userCtx, customTransport),
//	}
//
// # Architecture
//
// The transport layer sits between the HTTP client and the network:
//
//	http.Client
//	    └─→ SigningTransport (valence-go)
//	        └─→ x_a, x_b, x_c, x_d, x_t query parameters
//	            └─→ Network
//
// Signing happens after any caller-side request construction, so query
// parameters added by the caller survive untouched alongside the
// authentication parameters.
package transport
