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

package transport

import (
	"fmt"
	"net/http"

	"github.com/valence-project/valence-go/pkg/auth"
)

// SigningTransport is an http.RoundTripper that appends Valence
// authentication parameters to every request passing through it.
//
// This transport provides:
//   - Automatic signing of all outgoing requests
//   - A fresh timestamp on every attempt, so retried requests are
//     re-signed rather than replayed with a stale clock
//   - Compatibility with any http.Client middleware stack
//
// Requests are cloned before signing; the caller's request is never
// modified, per the http.RoundTripper contract.
type SigningTransport struct {
	userCtx *auth.UserContext
	base    http.RoundTripper
}

var _ http.RoundTripper = (*SigningTransport)(nil)

// NewSigningTransport creates a transport that signs outgoing requests on
// behalf of the given user context.
//
// Parameters:
//   - userCtx: The user context whose credentials sign each request
//   - base: Optional underlying transport (nil to use http.DefaultTransport)
func NewSigningTransport(userCtx *auth.UserContext, base http.RoundTripper) *SigningTransport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &SigningTransport{
		userCtx: userCtx,
		base:    base,
	}
}

// RoundTrip signs a clone of req and forwards it to the underlying
// transport.
func (t *SigningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	signed := req.Clone(req.Context())
	if err := t.userCtx.SignRequest(signed); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	return t.base.RoundTrip(signed)
}

// NewHTTPClient returns an http.Client whose transport signs every request
// with the given user context. The returned client is ready to use against
// routes built with auth.UserContext.CreateAuthenticatedURL or any URL on
// the back-end host.
func NewHTTPClient(userCtx *auth.UserContext) *http.Client {
	return &http.Client{
		Transport: NewSigningTransport(userCtx, nil),
	}
}
