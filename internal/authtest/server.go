// Package authtest provides an in-process imitation of a Valence back-end
// for exercising the full authentication flow in tests: the interactive
// login redirect, signed API requests, and timestamp rejection with the
// server clock notice.
package authtest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/valence-project/valence-go/pkg/auth"
	"github.com/valence-project/valence-go/pkg/signer"
)

// Config holds the fake back-end's registered application, known users,
// and clock behavior.
type Config struct {
	AppID  string
	AppKey string

	// Users maps user IDs to user keys. Signed requests from IDs outside
	// this map are rejected.
	Users map[string]string

	// LoginAs is the user the token route logs in. Must be a key of Users.
	LoginAs string

	// ClockOffset shifts the back-end's clock relative to the local one,
	// for provoking timestamp rejections.
	ClockOffset time.Duration

	// Window is how far a request timestamp may stray from the back-end
	// clock before it is rejected. Defaults to 5 minutes.
	Window time.Duration

	// AllowAnonymous admits requests whose user ID and user signature are
	// both empty, as the real versions route does.
	AllowAnonymous bool

	// ForbiddenRoutes lists API routes that answer a plain 403 even to
	// correctly signed requests.
	ForbiddenRoutes []string
}

// Server is a running fake back-end.
type Server struct {
	*httptest.Server

	cfg    Config
	signer *signer.HMACSigner
}

// Start launches a fake back-end and registers its shutdown with t.Cleanup.
func Start(t *testing.T, cfg Config) *Server {
	t.Helper()

	if cfg.AppID == "" || cfg.AppKey == "" {
		t.Fatal("AppID and AppKey are required")
	}
	if cfg.LoginAs != "" {
		if _, ok := cfg.Users[cfg.LoginAs]; !ok {
			t.Fatalf("LoginAs %q is not in Users", cfg.LoginAs)
		}
	}
	if cfg.Window == 0 {
		cfg.Window = 5 * time.Minute
	}

	s := &Server{
		cfg:    cfg,
		signer: signer.New(),
	}

	r := mux.NewRouter()
	r.HandleFunc(auth.AuthTokenRoute, s.handleToken)
	r.HandleFunc(auth.DefaultAPIRoute, s.requireAuth(s.handleVersions))
	r.HandleFunc("/d2l/api/lp/1.0/users/whoami", s.requireAuth(s.handleWhoAmI))
	for _, route := range cfg.ForbiddenRoutes {
		r.HandleFunc(route, s.requireAuth(s.handleForbidden))
	}

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)

	return s
}

// Host returns the host:port the fake back-end listens on, suitable for
// auth.AppContext.CreateUserContext and friends.
func (s *Server) Host() string {
	return strings.TrimPrefix(s.URL, "http://")
}

func (s *Server) now() time.Time {
	return time.Now().Add(s.cfg.ClockOffset)
}

// handleToken imitates the interactive login: it checks the application's
// signature over the callback URL and redirects there with the logged-in
// user's credentials appended.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	target := q.Get(auth.CallbackURLParam)
	if target == "" {
		http.Error(w, "missing callback URL", http.StatusBadRequest)
		return
	}
	if q.Get(auth.AppIDParam) != s.cfg.AppID {
		http.Error(w, "unknown application", http.StatusUnauthorized)
		return
	}
	if !s.signer.Verify(q.Get(auth.AppSignatureParam), s.cfg.AppKey, target) {
		http.Error(w, "invalid application signature", http.StatusUnauthorized)
		return
	}
	if ct := q.Get(auth.ConnectTypeParam); ct != "" && ct != auth.ConnectTypeMobile {
		http.Error(w, "unsupported connect type", http.StatusBadRequest)
		return
	}
	if s.cfg.LoginAs == "" {
		http.Error(w, "no user configured", http.StatusInternalServerError)
		return
	}

	cb, err := url.Parse(target)
	if err != nil {
		http.Error(w, "bad callback URL", http.StatusBadRequest)
		return
	}
	cq := cb.Query()
	cq.Set(auth.CallbackUserIDParam, s.cfg.LoginAs)
	cq.Set(auth.CallbackUserKeyParam, s.cfg.Users[s.cfg.LoginAs])
	cb.RawQuery = cq.Encode()

	http.Redirect(w, r, cb.String(), http.StatusFound)
}

// requireAuth wraps an API handler with the checks a real back-end runs
// on signed requests. The timestamp check comes first and reports the
// server's clock on rejection.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get(auth.RequestAppIDParam) != s.cfg.AppID {
			http.Error(w, "unknown application", http.StatusUnauthorized)
			return
		}

		sent, err := strconv.ParseInt(q.Get(auth.RequestTimestampParam), 10, 64)
		if err != nil {
			http.Error(w, "bad timestamp", http.StatusUnauthorized)
			return
		}

		now := s.now().Unix()
		window := int64(s.cfg.Window.Seconds())
		if sent < now-window || sent > now+window {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprintf(w, "Timestamp out of range\r\nsrvtime=%d", now)
			return
		}

		path := strings.ToLower(r.URL.EscapedPath())
		if decoded, err := url.QueryUnescape(path); err == nil {
			path = decoded
		}
		base := strings.ToUpper(r.Method) + "&" + path + "&" + q.Get(auth.RequestTimestampParam)

		if !s.signer.Verify(q.Get(auth.RequestAppSignatureParam), s.cfg.AppKey, base) {
			http.Error(w, "invalid application signature", http.StatusUnauthorized)
			return
		}

		userID := q.Get(auth.RequestUserIDParam)
		if userID == "" {
			if !s.cfg.AllowAnonymous {
				http.Error(w, "authentication required", http.StatusForbidden)
				return
			}
			if q.Get(auth.RequestUserSignatureParam) != "" {
				http.Error(w, "invalid user signature", http.StatusUnauthorized)
				return
			}
			next(w, r)
			return
		}

		userKey, ok := s.cfg.Users[userID]
		if !ok {
			http.Error(w, "unknown user", http.StatusUnauthorized)
			return
		}
		if !s.signer.Verify(q.Get(auth.RequestUserSignatureParam), userKey, base) {
			http.Error(w, "invalid user signature", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `[{"ProductCode":"lp","LatestVersion":"1.46","SupportedVersions":["1.45","1.46"]}]`)
}

func (s *Server) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"Identifier":%q}`, r.URL.Query().Get(auth.RequestUserIDParam))
}

func (s *Server) handleForbidden(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not authorized", http.StatusForbidden)
}
