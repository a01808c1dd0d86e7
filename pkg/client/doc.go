// Package client provides an HTTP client that signs Valence API requests.
//
// The client wraps a standard http.Client and a user context: every
// request is stamped with the five authentication query parameters before
// it goes out, and responses from the versions probe can be interpreted
// back into an authentication outcome.
//
// # Basic Usage
//
//	// Restore a user context from saved properties
//	userCtx, _ := auth.RestoreUserContext(appID, appKey, props)
//	c := client.New(userCtx, nil, logger)
//
//	// Probe the back-end (works for anonymous contexts too)
//	resp, result, err := c.Versions(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer resp.Body.Close()
//
//	if result != auth.ResultOkay {
//	    log.Printf("not authenticated: %s", result)
//	}
//
// # API Calls
//
//	resp, err := c.Get(ctx, "/d2l/api/lp/1.0/users/whoami")
//
//	body := []byte(`{"Name": "example"}`)
//	resp, err = c.Post(ctx, "/d2l/api/lp/1.0/somewhere", body)
//
// # Custom Requests
//
//	req, _ := http.NewRequestWithContext(ctx, "PUT", fullURL, body)
//	req.Header.Set("Content-Type", "application/json")
//	resp, err := c.Do(ctx, req)
//
// # Custom HTTP Client
//
//	httpClient := &http.Client{
//	    Timeout: 30 * time.Second,
//	}
//	c := client.New(userCtx, httpClient, nil)
//
// # Clock Skew Recovery
//
// Back-ends reject requests whose timestamp falls outside their validity
// window. When a 403 carries the server's timestamp notice, Versions
// corrects the context's skew estimate as a side effect, so a retry after
// an interpreted rejection signs with a timestamp the server accepts:
//
//	resp, result, _ := c.Versions(ctx)
//	resp.Body.Close()
//	if result == auth.ResultNoPermission {
//	    // Skew estimate is now corrected; retry once.
//	    resp, result, _ = c.Versions(ctx)
//	    resp.Body.Close()
//	}
//
// # Thread Safety
//
// Concurrent requests through one Client are safe as long as the skew
// estimate is not being corrected at the same time; interpretation
// (Versions, auth.UserContext.InterpretResult) writes the shared estimate
// and should be serialized by the caller.
package client
