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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valence-project/valence-go/pkg/auth"
	"github.com/valence-project/valence-go/pkg/signer"
)

const (
	testAppID   = "G9nUpvbZQyiPrk3um2YAkQ"
	testAppKey  = "mouse"
	testUserID  = "someUserId"
	testUserKey = "gopher"
)

// newTestUserContext creates an authenticated user context for transport tests.
func newTestUserContext(t *testing.T) *auth.UserContext {
	t.Helper()

	app, err := auth.NewAppContext(testAppID, testAppKey)
	require.NoError(t, err)

	uc, err := app.CreateUserContext(
		"https://app.example.com/cb?x_a="+testUserID+"&x_b="+testUserKey,
		"lms.example.edu",
		false,
	)
	require.NoError(t, err)

	return uc
}

// assertSignedQuery recomputes both signatures from the timestamp the server
// received and checks them against the request's x_c and x_d parameters.
func assertSignedQuery(t *testing.T, r *http.Request, userKey string) {
	t.Helper()

	q := r.URL.Query()
	timestamp := q.Get(auth.RequestTimestampParam)
	require.NotEmpty(t, timestamp)

	base := r.Method + "&" + r.URL.Path + "&" + timestamp
	s := signer.New()
	assert.Equal(t, s.Sign(testAppKey, base), q.Get(auth.RequestAppSignatureParam))
	if userKey != "" {
		assert.Equal(t, s.Sign(userKey, base), q.Get(auth.RequestUserSignatureParam))
	}
}

func TestNewSigningTransport(t *testing.T) {
	uc := newTestUserContext(t)

	tr := NewSigningTransport(uc, nil)
	assert.Equal(t, http.DefaultTransport, tr.base)

	custom := &http.Transport{}
	tr = NewSigningTransport(uc, custom)
	assert.Equal(t, http.RoundTripper(custom), tr.base)
}

func TestSigningTransport_SignsRequest(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		// Caller's own parameters survive signing
		assert.Equal(t, "versions", q.Get("fields"))

		assert.Equal(t, testAppID, q.Get(auth.RequestAppIDParam))
		assert.Equal(t, testUserID, q.Get(auth.RequestUserIDParam))
		assertSignedQuery(t, r, testUserKey)

		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	client := &http.Client{Transport: NewSigningTransport(newTestUserContext(t), nil)}

	resp, err := client.Get(server.URL + "/d2l/api/versions/?fields=versions")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSigningTransport_DoesNotMutateCallerRequest(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	client := &http.Client{Transport: NewSigningTransport(newTestUserContext(t), nil)}

	req, err := http.NewRequest("GET", server.URL+"/d2l/api/versions/", nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	// The signed clone went over the wire; the caller's request is untouched
	assert.NotContains(t, req.URL.Query(), auth.RequestAppSignatureParam)
	assert.Empty(t, req.URL.RawQuery)
}

func TestSigningTransport_EncodedPathOctets(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		// The wire path keeps the caller's encoding; the signatures must
		// cover its once-decoded form
		assert.Equal(t, "/d2l/api/lp/1.0/content/a%2Bb", r.URL.EscapedPath())
		assert.Equal(t, "/d2l/api/lp/1.0/content/a+b", r.URL.Path)
		assertSignedQuery(t, r, testUserKey)

		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	client := &http.Client{Transport: NewSigningTransport(newTestUserContext(t), nil)}

	resp, err := client.Get(server.URL + "/d2l/api/lp/1.0/content/a%2Bb")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSigningTransport_AnonymousContext(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		// Anonymous requests carry empty user parameters, not absent ones
		require.Contains(t, q, auth.RequestUserIDParam)
		require.Contains(t, q, auth.RequestUserSignatureParam)
		assert.Empty(t, q.Get(auth.RequestUserIDParam))
		assert.Empty(t, q.Get(auth.RequestUserSignatureParam))
		assertSignedQuery(t, r, "")

		w.WriteHeader(http.StatusOK)
	}

	server := httptest.NewServer(http.HandlerFunc(handler))
	defer server.Close()

	app, err := auth.NewAppContext(testAppID, testAppKey)
	require.NoError(t, err)
	uc, err := app.CreateAnonymousUserContext("lms.example.edu", false)
	require.NoError(t, err)

	client := NewHTTPClient(uc)

	resp, err := client.Get(server.URL + auth.DefaultAPIRoute)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNewHTTPClient(t *testing.T) {
	uc := newTestUserContext(t)

	client := NewHTTPClient(uc)

	require.NotNil(t, client.Transport)
	_, ok := client.Transport.(*SigningTransport)
	assert.True(t, ok)
}
