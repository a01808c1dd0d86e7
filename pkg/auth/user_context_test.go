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
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fixed clock for signature fixtures: all tokens below were precomputed
// for app key "mouse" and user key "gopher" at this instant.
var testClock = time.Unix(1234567890, 0)

func newAuthenticatedContext(t *testing.T) *UserContext {
	t.Helper()

	app, err := NewAppContext("G9nUpvbZQyiPrk3um2YAkQ", "mouse")
	require.NoError(t, err)

	uc, err := app.CreateUserContext(
		"https://app.example.com/cb?x_a=someUserId&x_b=gopher",
		"lms.example.edu",
		false,
	)
	require.NoError(t, err)

	uc.now = func() time.Time { return testClock }
	return uc
}

func newAnonymousContext(t *testing.T) *UserContext {
	t.Helper()

	app, err := NewAppContext("G9nUpvbZQyiPrk3um2YAkQ", "mouse")
	require.NoError(t, err)

	uc, err := app.CreateAnonymousUserContext("lms.example.edu", false)
	require.NoError(t, err)

	uc.now = func() time.Time { return testClock }
	return uc
}

func TestUserContext_SignQuery_Authenticated(t *testing.T) {
	// Test Case 1: All five parameters present with precomputed signatures

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute
	q := uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock)

	// Assert
	assert.Equal(t, "G9nUpvbZQyiPrk3um2YAkQ", q.Get(RequestAppIDParam))
	assert.Equal(t, "someUserId", q.Get(RequestUserIDParam))
	assert.Equal(t, "1234567890", q.Get(RequestTimestampParam))
	// Sign("mouse", "GET&/d2l/api/versions/&1234567890")
	assert.Equal(t, "ai3h3fLzbxFZoznjx7SEEmypCATMTMG9A6edKPqD6Js", q.Get(RequestAppSignatureParam))
	// Sign("gopher", "GET&/d2l/api/versions/&1234567890")
	assert.Equal(t, "-lS5CMcsdFOdh7vnjHEMZ5iGZssjOcwS2uL3yizdxdA", q.Get(RequestUserSignatureParam))
}

func TestUserContext_SignQuery_AnonymousUserSignatureEmpty(t *testing.T) {
	// Test Case 2: Anonymous contexts send empty user ID and user signature,
	// but both parameters stay on the wire

	// Setup
	uc := newAnonymousContext(t)

	// Execute
	q := uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock)

	// Assert
	require.Contains(t, q, RequestUserIDParam)
	require.Contains(t, q, RequestUserSignatureParam)
	assert.Empty(t, q.Get(RequestUserIDParam))
	assert.Empty(t, q.Get(RequestUserSignatureParam))
	assert.Equal(t, "ai3h3fLzbxFZoznjx7SEEmypCATMTMG9A6edKPqD6Js", q.Get(RequestAppSignatureParam))

	encoded := q.Encode()
	assert.Contains(t, encoded, "x_b=&")
	assert.Contains(t, encoded, "x_d=&")
}

func TestUserContext_SignQuery_MergesWithoutMutating(t *testing.T) {
	// Test Case 3: Existing query parameters survive and the input is not
	// touched

	// Setup
	uc := newAuthenticatedContext(t)
	query := url.Values{"fields": {"name", "id"}}

	// Execute
	merged := uc.SignQuery("GET", "/d2l/api/versions/", query, testClock)

	// Assert
	assert.Equal(t, []string{"name", "id"}, merged["fields"])
	assert.Len(t, merged, 6)
	assert.Len(t, query, 1)
	assert.NotContains(t, query, RequestTimestampParam)
}

func TestUserContext_SignQuery_PathCanonicalization(t *testing.T) {
	// Test Case 4: The path is lower-cased and percent-decoded before it
	// enters the signature base string

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute: mixed case and encoded braces must canonicalize to
	// "/d2l/api/lp/users/{userid}"
	q := uc.SignQuery("post", "/D2L/API/LP/Users/%7BUserID%7D", nil, testClock)

	// Assert: Sign("mouse", "POST&/d2l/api/lp/users/{userid}&1234567890")
	assert.Equal(t, "ixR8eo3zQOmH0TJEgIMa-FQ-h_dV90mVMxCYVTEOvVk", q.Get(RequestAppSignatureParam))
	// Sign("gopher", same base)
	assert.Equal(t, "Jte9otaRA8q-y0yBZoGqAst-hy1BsRDuKV_hf5XKFqk", q.Get(RequestUserSignatureParam))
}

func TestUserContext_SignQuery_SkewShiftsTimestamp(t *testing.T) {
	// Test Case 5: The skew estimate moves the stamped second, rounding down

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute: +4000ms lands on second 1234567894
	uc.AdjustSkew(4000)
	q := uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock)

	// Assert
	assert.Equal(t, "1234567894", q.Get(RequestTimestampParam))
	assert.Equal(t, "jED07vCpVo-8rALnAIbAYLpe2XlPyF8vfXjzmmAuhzU", q.Get(RequestAppSignatureParam))
	assert.Equal(t, "8x9afu-Y5ef4i8q2lpx4rP3K8JzxfKDbyX9BDWmeaKw", q.Get(RequestUserSignatureParam))

	// Execute: -2500ms floors to second 1234567887
	uc.AdjustSkew(-2500)
	q = uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock)

	// Assert
	assert.Equal(t, "1234567887", q.Get(RequestTimestampParam))
	assert.Equal(t, "X-43nmzyYxRvuQIb5HhzrTKXrvk0x0pMSdc2AWqvdcg", q.Get(RequestAppSignatureParam))
	assert.Equal(t, "-v-ov9N3ThJa7ytlGWoTu-mux3QivckjtSQPEUQLPKU", q.Get(RequestUserSignatureParam))
}

func TestUserContext_SignRequest(t *testing.T) {
	// Test Case 6: The hook rewrites the request URL in place

	// Setup
	uc := newAuthenticatedContext(t)
	req, err := http.NewRequest("GET", "http://lms.example.edu/d2l/api/versions/?fields=name", nil)
	require.NoError(t, err)

	// Execute
	err = uc.SignRequest(req)

	// Assert
	require.NoError(t, err)
	q := req.URL.Query()
	assert.Equal(t, "name", q.Get("fields"))
	assert.Equal(t, "G9nUpvbZQyiPrk3um2YAkQ", q.Get(RequestAppIDParam))
	assert.Equal(t, "someUserId", q.Get(RequestUserIDParam))
	assert.Equal(t, "ai3h3fLzbxFZoznjx7SEEmypCATMTMG9A6edKPqD6Js", q.Get(RequestAppSignatureParam))
	assert.Equal(t, "-lS5CMcsdFOdh7vnjHEMZ5iGZssjOcwS2uL3yizdxdA", q.Get(RequestUserSignatureParam))
	assert.Equal(t, "1234567890", q.Get(RequestTimestampParam))
}

func TestUserContext_SignRequest_NilRequest(t *testing.T) {
	// Test Case 7: A nil request fails cleanly

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute + Assert
	assert.ErrorIs(t, uc.SignRequest(nil), ErrNilRequest)
}

func TestUserContext_CreateAuthenticatedURL_Defaults(t *testing.T) {
	// Test Case 8: Empty route and method fall back to the versions probe

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute
	rawURL, err := uc.CreateAuthenticatedURL("", "")

	// Assert
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, "lms.example.edu", u.Host)
	assert.Equal(t, DefaultAPIRoute, u.Path)
	assert.Equal(t, "ai3h3fLzbxFZoznjx7SEEmypCATMTMG9A6edKPqD6Js", u.Query().Get(RequestAppSignatureParam))
}

func TestUserContext_CreateAuthenticatedURL_EncryptedScheme(t *testing.T) {
	// Test Case 9: The encrypt-requests flag selects https

	// Setup
	app, err := NewAppContext("G9nUpvbZQyiPrk3um2YAkQ", "mouse")
	require.NoError(t, err)
	uc, err := app.CreateUserContext(
		"https://app.example.com/cb?x_a=someUserId&x_b=gopher",
		"lms.example.edu",
		true,
	)
	require.NoError(t, err)
	uc.now = func() time.Time { return testClock }

	// Execute
	rawURL, err := uc.CreateAuthenticatedURL("/d2l/api/lp/1.0/users/whoami", "GET")

	// Assert
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "/d2l/api/lp/1.0/users/whoami", u.Path)
	assert.NotEmpty(t, u.Query().Get(RequestUserSignatureParam))
}

func TestUserContext_InterpretResult_Mapping(t *testing.T) {
	// Test Case 10: Status codes map to the documented results

	// Setup
	uc := newAuthenticatedContext(t)
	cases := []struct {
		status int
		want   AuthResult
	}{
		{200, ResultOkay},
		{401, ResultInvalidSignature},
		{403, ResultNoPermission},
		{404, ResultUnknown},
		{500, ResultUnknown},
		{302, ResultUnknown},
	}

	for _, c := range cases {
		// Execute + Assert
		assert.Equal(t, c.want, uc.InterpretResult(c.status, nil), "status %d", c.status)
	}
}

func TestUserContext_InterpretResult_TimestampNotice(t *testing.T) {
	// Test Case 11: A 403 carrying the server's timestamp notice corrects
	// the skew estimate but still maps to no-permission

	// Setup
	uc := newAuthenticatedContext(t)
	require.Equal(t, int64(0), uc.ServerSkewMillis())
	body := strings.NewReader("Timestamp out of range\r\nsrvtime=1234567990")

	// Execute
	result := uc.InterpretResult(403, body)

	// Assert: server reports 100 seconds ahead of the pinned local clock
	assert.Equal(t, ResultNoPermission, result)
	assert.Equal(t, int64(100000), uc.ServerSkewMillis())

	// The next signed request is stamped inside the server's window
	q := uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock)
	assert.Equal(t, "1234567990", q.Get(RequestTimestampParam))
}

func TestUserContext_InterpretResult_PlainForbidden(t *testing.T) {
	// Test Case 12: A 403 without the notice leaves the skew untouched

	// Setup
	uc := newAuthenticatedContext(t)
	uc.AdjustSkew(4000)

	// Execute
	result := uc.InterpretResult(403, strings.NewReader("Not authorized"))

	// Assert
	assert.Equal(t, ResultNoPermission, result)
	assert.Equal(t, int64(4000), uc.ServerSkewMillis())
}

func TestUserContext_Properties_RoundTrip(t *testing.T) {
	// Test Case 13: Properties restore to an equivalent context

	// Setup
	uc := newAuthenticatedContext(t)
	uc.AdjustSkew(-2500)

	app, err := NewAppContext("G9nUpvbZQyiPrk3um2YAkQ", "mouse")
	require.NoError(t, err)

	// Execute
	restored, err := app.CreateUserContextFromProperties(uc.Properties())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uc.Properties(), restored.Properties())

	restored.now = func() time.Time { return testClock }
	assert.Equal(t,
		uc.SignQuery("GET", "/d2l/api/versions/", nil, testClock),
		restored.SignQuery("GET", "/d2l/api/versions/", nil, testClock),
	)
}

func TestUserContext_Properties_Anonymous(t *testing.T) {
	// Test Case 14: Anonymous state survives the property round trip

	// Setup
	uc := newAnonymousContext(t)

	// Execute
	props := uc.Properties()

	// Assert
	assert.True(t, props.Anonymous)
	assert.Empty(t, props.UserID)
	assert.Empty(t, props.UserKey)
	assert.Equal(t, "lms.example.edu", props.Host)

	restored, err := RestoreUserContext("G9nUpvbZQyiPrk3um2YAkQ", "mouse", props)
	require.NoError(t, err)
	assert.True(t, restored.Anonymous())
}

func TestUserContext_AdjustSkew(t *testing.T) {
	// Test Case 15: AdjustSkew replaces the estimate outright

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute
	uc.AdjustSkew(4000)
	uc.AdjustSkew(-2500)

	// Assert
	assert.Equal(t, int64(-2500), uc.ServerSkewMillis())
	assert.Equal(t, int64(-2500), uc.Properties().ServerSkew)
}

func TestUserContext_SignRequest_EncodedPathOctets(t *testing.T) {
	// Test Case 16: An encoded octet in the raw path is decoded exactly
	// once on its way into the signature base, so %2B signs as "+", not
	// as a space

	// Setup
	uc := newAuthenticatedContext(t)
	req, err := http.NewRequest("GET", "http://lms.example.edu/d2l/api/lp/1.0/content/a%2Bb", nil)
	require.NoError(t, err)

	// Execute
	err = uc.SignRequest(req)

	// Assert: Sign("mouse", "GET&/d2l/api/lp/1.0/content/a+b&1234567890")
	require.NoError(t, err)
	q := req.URL.Query()
	assert.Equal(t, "sX3xvqoxvB4nJVx6b9aDB4Uyt4hO5Ap7jZZIl6Na-fM", q.Get(RequestAppSignatureParam))
	// Sign("gopher", same base)
	assert.Equal(t, "vq3GYi4G_s_Q_TEG9Z3GENxY-r9pcE6KCIuyQ05clX8", q.Get(RequestUserSignatureParam))

	// The caller's encoding still travels on the wire
	assert.Equal(t, "/d2l/api/lp/1.0/content/a%2Bb", req.URL.EscapedPath())
}

func TestUserContext_SignRequest_DoubleEncodedOctet(t *testing.T) {
	// Test Case 17: A double-encoded octet decodes to its singly-encoded
	// form, never all the way down

	// Setup
	uc := newAuthenticatedContext(t)
	req, err := http.NewRequest("GET", "http://lms.example.edu/d2l/api/lp/1.0/content/a%2525b", nil)
	require.NoError(t, err)

	// Execute
	err = uc.SignRequest(req)

	// Assert: Sign("mouse", "GET&/d2l/api/lp/1.0/content/a%25b&1234567890")
	require.NoError(t, err)
	q := req.URL.Query()
	assert.Equal(t, "1FadYKb8Rd2fLsMwq4IcNopj20OJ1Rj6hNUYCxkSxBk", q.Get(RequestAppSignatureParam))
	// Sign("gopher", same base)
	assert.Equal(t, "G-wuJCWIOC3Mz4cMKhcnDTfuZA0mqzMDdAC1Qlt8mLI", q.Get(RequestUserSignatureParam))
}

func TestUserContext_CreateAuthenticatedURL_EncodedRoute(t *testing.T) {
	// Test Case 18: An encoded octet in the route survives into the built
	// URL and the signature covers its once-decoded form

	// Setup
	uc := newAuthenticatedContext(t)

	// Execute
	rawURL, err := uc.CreateAuthenticatedURL("/d2l/api/lp/1.0/content/a%2Bb", "GET")

	// Assert
	require.NoError(t, err)
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "/d2l/api/lp/1.0/content/a%2Bb", u.EscapedPath())
	assert.Equal(t, "sX3xvqoxvB4nJVx6b9aDB4Uyt4hO5Ap7jZZIl6Na-fM", u.Query().Get(RequestAppSignatureParam))
	assert.Equal(t, "vq3GYi4G_s_Q_TEG9Z3GENxY-r9pcE6KCIuyQ05clX8", u.Query().Get(RequestUserSignatureParam))
}
