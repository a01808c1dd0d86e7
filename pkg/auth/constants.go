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

package auth

const (
	// AuthTokenRoute is the back-end route that starts interactive user
	// authentication.
	AuthTokenRoute = "/d2l/auth/api/token"

	// DefaultAPIRoute is the route CreateAuthenticatedURL signs when the
	// caller names none. It responds to unauthenticated and anonymous
	// callers alike, which makes it the standard reachability probe.
	DefaultAPIRoute = "/d2l/api/versions/"
)

// Query parameters of the authentication redirect URL built by
// CreateAuthenticationURL.
const (
	AppIDParam        = "x_a"
	AppSignatureParam = "x_b"
	CallbackURLParam  = "x_target"
	ConnectTypeParam  = "type"
)

// Query parameters the back-end appends to the callback redirect after a
// successful login. The wire protocol reuses x_a and x_b here with
// meanings that differ from both other flows; the three parameter sets
// are kept separate and must never be unified.
const (
	CallbackUserIDParam  = "x_a"
	CallbackUserKeyParam = "x_b"
)

// Query parameters carried by every signed API request.
const (
	RequestAppIDParam         = "x_a"
	RequestUserIDParam        = "x_b"
	RequestAppSignatureParam  = "x_c"
	RequestUserSignatureParam = "x_d"
	RequestTimestampParam     = "x_t"
)

// ConnectTypeMobile selects the mobile login flow on the token route.
const ConnectTypeMobile = "mobile"

// validConnectTypes lists the connect types the token route accepts.
var validConnectTypes = []string{ConnectTypeMobile}

func validConnectType(connectType string) bool {
	for _, t := range validConnectTypes {
		if connectType == t {
			return true
		}
	}
	return false
}
