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
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/valence-project/valence-go/pkg/auth"
	"github.com/valence-project/valence-go/pkg/client"
)

// This example probes the versions route with an anonymous user context.
// Anonymous contexts need only the app key pair, no user login, which
// makes them the cheapest way to check that a back-end is reachable.
func main() {
	fmt.Println("Valence Go - Anonymous Probe Example")
	fmt.Println("======================================")

	host := os.Getenv("VALENCE_HOST")
	if host == "" {
		host = "lms.example.edu"
	}
	appID := os.Getenv("VALENCE_APP_ID")
	appKey := os.Getenv("VALENCE_APP_KEY")
	if appID == "" || appKey == "" {
		appID, appKey = "demoAppId", "demoAppKey"
	}

	// 1. Create the app context
	fmt.Println("\n1. Creating app context...")
	app, err := auth.NewAppContext(appID, appKey)
	if err != nil {
		log.Fatalf("Failed to create app context: %v", err)
	}
	fmt.Printf("   App ID: %s\n", app.AppID())

	// 2. Create an anonymous user context
	fmt.Println("\n2. Creating anonymous user context...")
	userCtx, err := app.CreateAnonymousUserContext(host, true)
	if err != nil {
		log.Fatalf("Failed to create anonymous context: %v", err)
	}
	fmt.Printf("   Host: %s\n", userCtx.Host())
	fmt.Printf("   Anonymous: %v\n", userCtx.Anonymous())

	// 3. Build the signed probe URL
	fmt.Println("\n3. Building the signed probe URL...")
	probeURL, err := userCtx.CreateAuthenticatedURL("", http.MethodGet)
	if err != nil {
		log.Fatalf("Failed to build probe URL: %v", err)
	}
	fmt.Printf("   %s\n", probeURL)
	fmt.Println("   Anonymous requests still carry x_b and x_d, with empty values.")

	// 4. Probe the versions route
	fmt.Println("\n4. Probing the versions route...")
	fmt.Println("   (Note: This will fail unless VALENCE_HOST points at a real back-end)")
	c := client.New(userCtx, nil, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, result, err := c.Versions(ctx)
	if err != nil {
		fmt.Printf("   ⚠️  Expected error (no back-end reachable): %v\n", err)
		fmt.Println("\n✅ Example completed successfully!")
		fmt.Println("\nTo probe a real back-end:")
		fmt.Println("  1. Set VALENCE_HOST to your back-end host")
		fmt.Println("  2. Set VALENCE_APP_ID and VALENCE_APP_KEY to a registered key pair")
		fmt.Println("  3. Run this example again")
		return
	}
	defer resp.Body.Close()

	fmt.Printf("   HTTP %d, auth result: %s\n", resp.StatusCode, result)
	if result == auth.ResultOkay {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err == nil {
			fmt.Printf("   Supported product versions: %s\n", body)
		}
	}

	fmt.Println("\n✅ Example completed!")
}
