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
	"net/url"

	"github.com/valence-project/valence-go/pkg/signer"
)

// AppContext represents a client application registered with a Valence
// back-end. It holds the application's shared signing key, builds the
// redirect URL that starts interactive user login, and constructs
// UserContexts from the login callback, from persisted properties, or
// anonymously.
//
// An AppContext is immutable after construction and safe for concurrent
// use.
type AppContext struct {
	appID  string
	appKey string
	signer signer.Signer
}

// AuthURLOptions customizes CreateAuthenticationURLWithOptions.
type AuthURLOptions struct {
	// ConnectType is added as the "type" parameter when it is one of the
	// values the token route accepts (currently only ConnectTypeMobile).
	// Unrecognized values are dropped, not rejected.
	ConnectType string

	// Insecure builds an http URL instead of the default https.
	Insecure bool
}

// NewAppContext creates an AppContext backed by the default HMAC signer.
func NewAppContext(appID, appKey string) (*AppContext, error) {
	return NewAppContextWithSigner(appID, appKey, signer.New())
}

// NewAppContextWithSigner creates an AppContext with a caller-supplied
// signer capability.
func NewAppContextWithSigner(appID, appKey string, s signer.Signer) (*AppContext, error) {
	if appID == "" {
		return nil, ErrMissingAppID
	}
	if appKey == "" {
		return nil, ErrMissingAppKey
	}
	if s == nil {
		return nil, ErrNilSigner
	}

	return &AppContext{
		appID:  appID,
		appKey: appKey,
		signer: s,
	}, nil
}

// AppID returns the registered application ID.
func (a *AppContext) AppID() string {
	return a.appID
}

// CreateAuthenticationURL builds the URL a user's browser is sent to for
// interactive login on host. After login the back-end redirects the
// browser to clientAppURL with the new user's credentials appended as
// query parameters; pass that redirect URL to CreateUserContext.
func (a *AppContext) CreateAuthenticationURL(host, clientAppURL string) (string, error) {
	return a.CreateAuthenticationURLWithOptions(host, clientAppURL, nil)
}

// CreateAuthenticationURLWithOptions is CreateAuthenticationURL with a
// connect type and scheme override. A nil opts behaves like the plain
// form.
func (a *AppContext) CreateAuthenticationURLWithOptions(host, clientAppURL string, opts *AuthURLOptions) (string, error) {
	if host == "" {
		return "", ErrMissingHost
	}
	if clientAppURL == "" {
		return "", ErrMissingClientAppURL
	}
	if opts == nil {
		opts = &AuthURLOptions{}
	}

	q := url.Values{}
	q.Set(AppIDParam, a.appID)
	q.Set(AppSignatureParam, a.signer.Sign(a.appKey, clientAppURL))
	q.Set(CallbackURLParam, clientAppURL)
	if validConnectType(opts.ConnectType) {
		q.Set(ConnectTypeParam, opts.ConnectType)
	}

	scheme := "https"
	if opts.Insecure {
		scheme = "http"
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     AuthTokenRoute,
		RawQuery: q.Encode(),
	}
	return u.String(), nil
}

// CreateAnonymousUserContext builds a UserContext with no user identity:
// requests signed through it carry the application signature and an empty
// user signature. encryptRequests selects https for the URLs the context
// builds.
func (a *AppContext) CreateAnonymousUserContext(host string, encryptRequests bool) (*UserContext, error) {
	return newUserContext(userContextParams{
		host:            host,
		appID:           a.appID,
		appKey:          a.appKey,
		encryptRequests: encryptRequests,
		signer:          a.signer,
	})
}

// CreateUserContext builds a UserContext from the redirect the back-end
// issued after a successful interactive login. resultURI is the full
// callback URL the browser landed on; its query must carry the user ID
// and user key parameters, otherwise the login did not complete and
// ErrMissingCallbackParams is returned.
func (a *AppContext) CreateUserContext(resultURI, host string, encryptRequests bool) (*UserContext, error) {
	if resultURI == "" {
		return nil, ErrMissingResultURI
	}
	if host == "" {
		return nil, ErrMissingHost
	}

	u, err := url.Parse(resultURI)
	if err != nil {
		return nil, fmt.Errorf("failed to parse result URI: %w", err)
	}

	q := u.Query()
	userID := q.Get(CallbackUserIDParam)
	userKey := q.Get(CallbackUserKeyParam)
	if userID == "" || userKey == "" {
		return nil, ErrMissingCallbackParams
	}

	return newUserContext(userContextParams{
		host:            host,
		userID:          userID,
		userKey:         userKey,
		appID:           a.appID,
		appKey:          a.appKey,
		encryptRequests: encryptRequests,
		signer:          a.signer,
	})
}

// CreateUserContextFromProperties rebuilds a UserContext from a property
// set persisted by an earlier session, combined with this application's
// credentials and signer.
func (a *AppContext) CreateUserContextFromProperties(props ContextProperties) (*UserContext, error) {
	return newUserContext(userContextParams{
		host:             props.Host,
		userID:           props.UserID,
		userKey:          props.UserKey,
		appID:            a.appID,
		appKey:           a.appKey,
		encryptRequests:  props.EncryptRequests,
		serverSkewMillis: props.ServerSkew,
		signer:           a.signer,
	})
}

// RestoreUserContext rebuilds a UserContext in one step from an
// application's credentials and a persisted property set, without keeping
// the intermediate AppContext around.
func RestoreUserContext(appID, appKey string, props ContextProperties) (*UserContext, error) {
	a, err := NewAppContext(appID, appKey)
	if err != nil {
		return nil, err
	}
	return a.CreateUserContextFromProperties(props)
}
