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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/valence-project/valence-go/pkg/auth"
	"github.com/valence-project/valence-go/pkg/session"
	"github.com/valence-project/valence-go/pkg/transport"
)

// This example restores a saved session and issues a signed GET through
// the signing transport. Without a saved session or a reachable back-end
// it falls back to demo values, so every step still runs.
func main() {
	dbPath := flag.String("db", "valence-sessions.db", "Path to the session database")
	sessionName := flag.String("session", "default", "Saved session name")
	route := flag.String("route", "/d2l/api/lp/1.0/users/whoami", "API route to request")
	flag.Parse()

	fmt.Println("=== Signed Request Example ===")

	// Step 1: App credentials come from the environment. They are never
	// persisted with the session, so both halves are needed here.
	fmt.Println("\nStep 1: Reading app credentials...")
	appID := os.Getenv("VALENCE_APP_ID")
	appKey := os.Getenv("VALENCE_APP_KEY")
	if appID == "" || appKey == "" {
		appID, appKey = "demoAppId", "demoAppKey"
		fmt.Println("  ⚠️  VALENCE_APP_ID/VALENCE_APP_KEY not set, using demo credentials")
	} else {
		fmt.Printf("  App ID: %s\n", appID)
	}

	// Step 2: Load the saved session
	fmt.Printf("\nStep 2: Loading session %q from %s...\n", *sessionName, *dbPath)
	ctx := context.Background()
	props, saved := loadSession(ctx, *dbPath, *sessionName)
	if saved {
		fmt.Printf("  Host: %s\n", props.Host)
		fmt.Printf("  User ID: %s\n", props.UserID)
	} else {
		props = auth.ContextProperties{
			Host:            "lms.example.edu",
			UserID:          "demoUserId",
			UserKey:         "demoUserKey",
			EncryptRequests: true,
		}
		fmt.Println("  ⚠️  No saved session found, using demo properties")
		fmt.Println("      (run the interactive-login example to create one)")
	}

	// Step 3: Restore the user context
	fmt.Println("\nStep 3: Restoring user context...")
	userCtx, err := auth.RestoreUserContext(appID, appKey, props)
	if err != nil {
		log.Fatalf("Failed to restore user context: %v", err)
	}
	fmt.Printf("  Restored context for user %q on %s\n", userCtx.UserID(), userCtx.Host())

	// Step 4: Build a signed URL. No network involved, the signature is
	// pure computation over method, path and timestamp.
	fmt.Println("\nStep 4: Building a signed URL...")
	signedURL, err := userCtx.CreateAuthenticatedURL(*route, http.MethodGet)
	if err != nil {
		log.Fatalf("Failed to build signed URL: %v", err)
	}
	fmt.Printf("  %s\n", signedURL)
	fmt.Println("  The query carries x_a (app ID), x_b (user ID), x_c (app")
	fmt.Println("  signature), x_d (user signature) and x_t (timestamp).")

	// Step 5: Issue the GET through the signing transport
	fmt.Println("\nStep 5: Issuing the signed GET...")
	httpClient := transport.NewHTTPClient(userCtx)
	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	scheme := "https"
	if !userCtx.EncryptRequests() {
		scheme = "http"
	}
	target := fmt.Sprintf("%s://%s%s", scheme, userCtx.Host(), *route)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Printf("  ⚠️  Expected error (back-end not reachable): %v\n", err)
		fmt.Println("\n✅ Example completed successfully!")
		fmt.Println("\nTo test against a real back-end:")
		fmt.Println("  1. Register your app to get an app ID/key pair")
		fmt.Println("  2. Run the interactive-login example to save a session")
		fmt.Println("  3. Export VALENCE_APP_ID and VALENCE_APP_KEY and run this again")
		return
	}
	defer resp.Body.Close()

	// Step 6: Interpret the authentication outcome
	fmt.Println("\nStep 6: Interpreting the result...")
	result := userCtx.InterpretResult(resp.StatusCode, resp.Body)
	fmt.Printf("  HTTP %d, auth result: %s\n", resp.StatusCode, result)

	if result == auth.ResultOkay {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err == nil && len(body) > 0 {
			fmt.Printf("  Response: %s\n", body)
		}
	}

	// A 403 with a timestamp notice updates the context's skew estimate.
	// Persist it so the next run signs with a corrected clock.
	if skew := userCtx.ServerSkewMillis(); skew != props.ServerSkew {
		fmt.Printf("  Learned server clock skew: %dms\n", skew)
		if saved {
			saveSession(ctx, *dbPath, *sessionName, userCtx.Properties())
			fmt.Printf("  Updated session %q\n", *sessionName)
		}
	}

	fmt.Println("\n✅ Example completed!")
}

func loadSession(ctx context.Context, dbPath, name string) (auth.ContextProperties, bool) {
	store, err := session.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Printf("  ⚠️  Could not open session database: %v\n", err)
		return auth.ContextProperties{}, false
	}
	defer store.Close()

	props, err := store.Load(ctx, name)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			fmt.Printf("  ⚠️  Could not load session: %v\n", err)
		}
		return auth.ContextProperties{}, false
	}
	return props, true
}

func saveSession(ctx context.Context, dbPath, name string, props auth.ContextProperties) {
	store, err := session.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Printf("  ⚠️  Could not open session database: %v\n", err)
		return
	}
	defer store.Close()

	if err := store.Save(ctx, name, props); err != nil {
		fmt.Printf("  ⚠️  Could not save session: %v\n", err)
	}
}
