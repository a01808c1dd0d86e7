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
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/valence-project/valence-go/pkg/auth"
	"github.com/valence-project/valence-go/pkg/client"
	"github.com/valence-project/valence-go/pkg/session"
)

// Config holds the VALENCE_* environment settings for the walkthrough.
type Config struct {
	Host         string
	AppID        string
	AppKey       string
	SessionName  string
	SessionDB    string
	CallbackAddr string
	Insecure     bool
	LoginTimeout time.Duration
}

func loadConfig() (*Config, error) {
	viper.SetEnvPrefix("VALENCE")
	viper.AutomaticEnv()

	viper.SetDefault("SESSION_NAME", "default")
	viper.SetDefault("SESSION_DB", "valence-sessions.db")
	viper.SetDefault("CALLBACK_ADDR", "127.0.0.1:0")
	viper.SetDefault("LOGIN_TIMEOUT", "5m")

	timeout, err := time.ParseDuration(viper.GetString("LOGIN_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid VALENCE_LOGIN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Host:         viper.GetString("HOST"),
		AppID:        viper.GetString("APP_ID"),
		AppKey:       viper.GetString("APP_KEY"),
		SessionName:  viper.GetString("SESSION_NAME"),
		SessionDB:    viper.GetString("SESSION_DB"),
		CallbackAddr: viper.GetString("CALLBACK_ADDR"),
		Insecure:     viper.GetBool("INSECURE"),
		LoginTimeout: timeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CallbackAddr == "" {
		return fmt.Errorf("callback address must not be empty")
	}
	if c.LoginTimeout <= 0 {
		return fmt.Errorf("login timeout must be greater than 0")
	}
	return nil
}

func main() {
	fmt.Println("Valence Go - Interactive Login Example")
	fmt.Println("========================================")

	// 1. Load configuration from the environment
	fmt.Println("\n1. Loading configuration from VALENCE_* environment variables...")
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Prompt for whatever the environment left out. The app key is a
	// shared secret, so it is read without echo.
	reader := bufio.NewReader(os.Stdin)
	if cfg.Host == "" {
		if cfg.Host, err = promptText(reader, "   Back-end host (e.g. lms.example.edu): "); err != nil {
			log.Fatalf("Failed to read host: %v", err)
		}
	}
	if cfg.AppID == "" {
		if cfg.AppID, err = promptText(reader, "   App ID: "); err != nil {
			log.Fatalf("Failed to read app ID: %v", err)
		}
	}
	if cfg.AppKey == "" {
		if cfg.AppKey, err = promptSecret("   App key (hidden): "); err != nil {
			log.Fatalf("Failed to read app key: %v", err)
		}
	}
	fmt.Printf("   Host: %s\n", cfg.Host)
	fmt.Printf("   App ID: %s\n", cfg.AppID)
	fmt.Printf("   Session: %q in %s\n", cfg.SessionName, cfg.SessionDB)

	// 2. Create the app context
	fmt.Println("\n2. Creating app context...")
	app, err := auth.NewAppContext(cfg.AppID, cfg.AppKey)
	if err != nil {
		log.Fatalf("Failed to create app context: %v", err)
	}
	fmt.Println("   App context created successfully!")

	// 3. Start a local HTTP server to catch the login redirect
	fmt.Println("\n3. Starting local callback server...")
	listener, err := net.Listen("tcp", cfg.CallbackAddr)
	if err != nil {
		log.Fatalf("Failed to listen on %s: %v", cfg.CallbackAddr, err)
	}
	defer listener.Close()

	callbackURL := fmt.Sprintf("http://%s/callback", listener.Addr())
	resultURIs := make(chan string, 1)

	r := mux.NewRouter()
	r.HandleFunc("/callback", func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprintln(w, "Login received. You can close this tab.")
		select {
		case resultURIs <- "http://" + req.Host + req.URL.RequestURI():
		default:
		}
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- http.Serve(listener, r)
	}()
	fmt.Printf("   Listening on %s\n", callbackURL)

	// 4. Build the authentication URL
	fmt.Println("\n4. Building the authentication URL...")
	authURL, err := app.CreateAuthenticationURLWithOptions(cfg.Host, callbackURL, &auth.AuthURLOptions{
		Insecure: cfg.Insecure,
	})
	if err != nil {
		log.Fatalf("Failed to build authentication URL: %v", err)
	}
	fmt.Println("\n   Open this URL in your browser and log in:")
	fmt.Printf("   %s\n", authURL)

	// 5. Wait for the back-end to redirect the browser to our callback
	fmt.Printf("\n5. Waiting up to %s for the login redirect...\n", cfg.LoginTimeout)
	var resultURI string
	select {
	case resultURI = <-resultURIs:
		fmt.Println("   Redirect received!")
	case err := <-serverErr:
		log.Fatalf("Callback server error: %v", err)
	case <-time.After(cfg.LoginTimeout):
		fmt.Println("   ⚠️  Timed out waiting for the login redirect")
		fmt.Println("\nTo complete the login flow:")
		fmt.Println("  1. Register your app with the back-end to get an app ID/key pair")
		fmt.Println("  2. Set VALENCE_HOST to a reachable back-end")
		fmt.Println("  3. Open the printed URL and log in before the timeout")
		return
	}

	// 6. Turn the callback into user credentials
	fmt.Println("\n6. Creating user context from the callback...")
	userCtx, err := app.CreateUserContext(resultURI, cfg.Host, !cfg.Insecure)
	if err != nil {
		log.Fatalf("Failed to create user context: %v", err)
	}
	logger.Info("login complete", zap.String("user_id", userCtx.UserID()))
	fmt.Printf("   User ID: %s\n", userCtx.UserID())

	// 7. Probe the versions route with the new credentials
	fmt.Println("\n7. Probing the versions route...")
	c := client.New(userCtx, nil, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, result, err := c.Versions(ctx)
	if err != nil {
		fmt.Printf("   ⚠️  Probe failed: %v\n", err)
	} else {
		resp.Body.Close()
		fmt.Printf("   HTTP %d, auth result: %s\n", resp.StatusCode, result)

		// A rejected timestamp teaches the context the server's clock
		// skew, so one retry is enough to recover.
		if result == auth.ResultNoPermission && userCtx.ServerSkewMillis() != 0 {
			fmt.Printf("   Learned server clock skew: %dms, retrying...\n", userCtx.ServerSkewMillis())
			if resp, result, err = c.Versions(ctx); err == nil {
				resp.Body.Close()
				fmt.Printf("   HTTP %d, auth result: %s\n", resp.StatusCode, result)
			}
		}
	}

	// 8. Persist the session for later runs
	fmt.Println("\n8. Saving the session...")
	store, err := session.NewSQLiteStore(cfg.SessionDB)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer store.Close()

	if err := store.Save(ctx, cfg.SessionName, userCtx.Properties()); err != nil {
		log.Fatalf("Failed to save session: %v", err)
	}
	fmt.Printf("   Saved session %q to %s\n", cfg.SessionName, cfg.SessionDB)

	fmt.Println("\n✅ Example completed!")
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Run the signed-request example to reuse the saved session")
	fmt.Println("  2. See the anonymous-probe example for key-only reachability checks")
}

func promptText(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	text, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}
