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

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/valence-project/valence-go/pkg/signer"
)

// maxResultBody bounds how much of a rejected response InterpretResult
// reads when looking for the server's timestamp notice.
const maxResultBody = 4096

// UserContext represents one calling identity against a Valence back-end:
// an authenticated end user, or the anonymous application-only identity.
// It signs outgoing requests with the two-tier scheme the back-end
// verifies (application signature plus user signature) and carries the
// client's best estimate of server clock skew.
//
// A context is anonymous or authenticated from construction on; there is
// no transition between the two. The skew estimate is the only mutable
// state: a UserContext is safe to share across goroutines for signing as
// long as callers serialize AdjustSkew (and InterpretResult on 403
// responses, which may adjust skew).
type UserContext struct {
	host             string
	userID           string
	userKey          string
	appID            string
	appKey           string
	encryptRequests  bool
	serverSkewMillis int64
	anonymous        bool
	signer           signer.Signer

	// now is replaced in tests to pin the clock
	now func() time.Time
}

type userContextParams struct {
	host             string
	userID           string
	userKey          string
	appID            string
	appKey           string
	encryptRequests  bool
	serverSkewMillis int64
	signer           signer.Signer
}

func newUserContext(p userContextParams) (*UserContext, error) {
	if p.host == "" {
		return nil, ErrMissingHost
	}
	if p.appID == "" {
		return nil, ErrMissingAppID
	}
	if p.appKey == "" {
		return nil, ErrMissingAppKey
	}
	if p.signer == nil {
		return nil, ErrNilSigner
	}
	if (p.userID == "") != (p.userKey == "") {
		return nil, ErrMismatchedUserCredentials
	}

	return &UserContext{
		host:             p.host,
		userID:           p.userID,
		userKey:          p.userKey,
		appID:            p.appID,
		appKey:           p.appKey,
		encryptRequests:  p.encryptRequests,
		serverSkewMillis: p.serverSkewMillis,
		anonymous:        p.userID == "",
		signer:           p.signer,
		now:              time.Now,
	}, nil
}

// Host returns the back-end host this context signs requests for.
func (u *UserContext) Host() string {
	return u.host
}

// UserID returns the authenticated user's ID, or the empty string for an
// anonymous context.
func (u *UserContext) UserID() string {
	return u.userID
}

// Anonymous reports whether this context carries no user identity.
func (u *UserContext) Anonymous() bool {
	return u.anonymous
}

// EncryptRequests reports whether URLs built for this context use https.
func (u *UserContext) EncryptRequests() bool {
	return u.encryptRequests
}

// ServerSkewMillis returns the current skew estimate in milliseconds.
func (u *UserContext) ServerSkewMillis() int64 {
	return u.serverSkewMillis
}

// buildSignatureBase canonicalizes one request into the string that gets
// signed: upper-cased method, lower-cased then percent-decoded path, and
// the timestamp, joined with '&'. A path that fails to decode is used
// lower-cased as-is.
func buildSignatureBase(method, path, timestamp string) string {
	p := strings.ToLower(path)
	if decoded, err := url.QueryUnescape(p); err == nil {
		p = decoded
	}
	return strings.ToUpper(method) + "&" + p + "&" + timestamp
}

// timestamp renders the skew-adjusted clock as whole Unix seconds,
// rounded down.
func (u *UserContext) timestamp(t time.Time) string {
	return strconv.FormatInt((t.UnixMilli()+u.serverSkewMillis)/1000, 10)
}

// SignQuery computes the five authentication parameters for one request
// and returns a copy of query with them merged in. method and path are
// the request's, with path in its on-the-wire (still percent-encoded)
// form; t is the moment the request is stamped. query is left unmodified
// and may be nil. The user signature parameter is present but empty for
// anonymous contexts.
func (u *UserContext) SignQuery(method, path string, query url.Values, t time.Time) url.Values {
	ts := u.timestamp(t)
	base := buildSignatureBase(method, path, ts)

	userSignature := ""
	if !u.anonymous {
		userSignature = u.signer.Sign(u.userKey, base)
	}

	merged := make(url.Values, len(query)+5)
	for k, vs := range query {
		merged[k] = append([]string(nil), vs...)
	}
	merged.Set(RequestAppIDParam, u.appID)
	merged.Set(RequestUserIDParam, u.userID)
	merged.Set(RequestAppSignatureParam, u.signer.Sign(u.appKey, base))
	merged.Set(RequestUserSignatureParam, userSignature)
	merged.Set(RequestTimestampParam, ts)
	return merged
}

// SignRequest is the reusable per-request signing hook: it stamps req at
// the current skew-adjusted time and rewrites its URL query to carry the
// five authentication parameters. A transport must invoke it exactly once
// per outgoing request, after the request is otherwise final.
func (u *UserContext) SignRequest(req *http.Request) error {
	if req == nil || req.URL == nil {
		return ErrNilRequest
	}
	// Sign the wire-form path; req.URL.Path has escapes already decoded.
	req.URL.RawQuery = u.SignQuery(req.Method, req.URL.EscapedPath(), req.URL.Query(), u.now()).Encode()
	return nil
}

// CreateAuthenticatedURL builds a complete signed URL for apiRoute
// without an *http.Request in hand. apiRoute defaults to DefaultAPIRoute
// and method to GET when empty. The scheme follows the context's
// encrypt-requests flag.
func (u *UserContext) CreateAuthenticatedURL(apiRoute, method string) (string, error) {
	if apiRoute == "" {
		apiRoute = DefaultAPIRoute
	}
	if method == "" {
		method = http.MethodGet
	}

	route, err := url.Parse(apiRoute)
	if err != nil {
		return "", fmt.Errorf("failed to parse API route: %w", err)
	}

	scheme := "http"
	if u.encryptRequests {
		scheme = "https"
	}

	signed := url.URL{
		Scheme:   scheme,
		Host:     u.host,
		Path:     route.Path,
		RawPath:  route.RawPath,
		RawQuery: u.SignQuery(method, route.EscapedPath(), route.Query(), u.now()).Encode(),
	}
	return signed.String(), nil
}

// InterpretResult classifies the back-end's response to a request signed
// through this context: 200 is ResultOkay, 401 ResultInvalidSignature,
// 403 ResultNoPermission, anything else ResultUnknown.
//
// On 403 the body (when non-nil) is read and, if it carries the server's
// timestamp notice, the context's skew estimate is corrected in place so
// the next signed request lands inside the server's acceptance window.
// The mapping itself does not change: timestamp rejections still surface
// as ResultNoPermission.
func (u *UserContext) InterpretResult(statusCode int, body io.Reader) AuthResult {
	switch statusCode {
	case http.StatusOK:
		return ResultOkay
	case http.StatusUnauthorized:
		return ResultInvalidSignature
	case http.StatusForbidden:
		if body != nil {
			if data, err := io.ReadAll(io.LimitReader(body, maxResultBody)); err == nil {
				if skew, ok := ServerSkewFromResponse(data, u.now()); ok {
					u.AdjustSkew(skew)
				}
			}
		}
		return ResultNoPermission
	default:
		return ResultUnknown
	}
}

// Properties serializes the context's restorable state. Feeding the
// result to CreateUserContextFromProperties (with the same application
// credentials) yields an equivalent context.
func (u *UserContext) Properties() ContextProperties {
	return ContextProperties{
		Host:            u.host,
		UserID:          u.userID,
		UserKey:         u.userKey,
		EncryptRequests: u.encryptRequests,
		ServerSkew:      u.serverSkewMillis,
		Anonymous:       u.anonymous,
	}
}

// AdjustSkew replaces the stored estimate of the back-end's clock skew,
// in milliseconds. Positive values mean the server clock runs ahead of
// the local one.
func (u *UserContext) AdjustSkew(skewMillis int64) {
	u.serverSkewMillis = skewMillis
}
