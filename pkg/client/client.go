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

package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/valence-project/valence-go"
	"github.com/valence-project/valence-go/pkg/auth"
)

// Client is an HTTP client that signs every request with Valence user
// credentials before sending it to the back-end.
type Client struct {
	userCtx    *auth.UserContext
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a client for the given user context.
// If httpClient is nil, http.DefaultClient is used.
// If logger is nil, logging is disabled.
func New(userCtx *auth.UserContext, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		userCtx:    userCtx,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do signs req in place and executes it.
//
// The signature is stamped with the context's skew-adjusted clock at call
// time. Requests that may be retried should go through
// transport.SigningTransport instead, which re-signs each attempt.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Check context first
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", valence.UserAgent())
	}

	if err := c.userCtx.SignRequest(req); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logger.Debug("request complete",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
	)

	return resp, nil
}

// Get sends a signed GET request for apiRoute. An empty route defaults to
// the versions probe.
func (c *Client) Get(ctx context.Context, apiRoute string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL(apiRoute), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}

	return c.Do(ctx, req)
}

// Post sends a signed POST request with a JSON body for apiRoute.
func (c *Client) Post(ctx context.Context, apiRoute string, body []byte) (*http.Response, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL(apiRoute), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	return c.Do(ctx, req)
}

// Versions probes the default versions route and interprets the outcome.
//
// The response is returned alongside the interpretation so callers can
// read the version payload on success. On a 403 the interpretation step
// consumes the beginning of the body to look for the server's timestamp
// notice; when one is found the context's skew estimate is corrected and
// the next signed request lands inside the server's window.
func (c *Client) Versions(ctx context.Context) (*http.Response, auth.AuthResult, error) {
	resp, err := c.Get(ctx, auth.DefaultAPIRoute)
	if err != nil {
		return nil, auth.ResultUnknown, err
	}

	result := c.userCtx.InterpretResult(resp.StatusCode, resp.Body)

	c.logger.Debug("versions probe",
		zap.Int("status", resp.StatusCode),
		zap.String("result", result.String()),
		zap.Int64("server_skew_ms", c.userCtx.ServerSkewMillis()),
	)

	return resp, result, nil
}

// UserContext returns the user context this client signs with.
func (c *Client) UserContext() *auth.UserContext {
	return c.userCtx
}

// apiURL builds the absolute URL for apiRoute from the context's host and
// scheme preference.
func (c *Client) apiURL(apiRoute string) string {
	if apiRoute == "" {
		apiRoute = auth.DefaultAPIRoute
	}

	scheme := "http"
	if c.userCtx.EncryptRequests() {
		scheme = "https"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   c.userCtx.Host(),
		Path:   apiRoute,
	}
	return u.String()
}
