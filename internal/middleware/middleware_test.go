package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET, OPTIONS" {
		t.Fatalf("allow-methods = %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	handler := CORS([]string{"http://localhost:3000"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unknown origin must get no CORS headers, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("request itself must still be served, status %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/blocks", nil)
	req.Header.Set("Origin", "https://explorer.metamui.network")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://explorer.metamui.network" {
		t.Fatalf("allow-origin = %q", got)
	}
}

func TestLoggingSetsTraceHeader(t *testing.T) {
	handler := Logging(logging.NewDefault("test"))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blocks", nil))
	if rec.Header().Get("X-Trace-ID") == "" {
		t.Fatal("missing generated trace id")
	}

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if got := rec.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Fatalf("supplied trace id not propagated: %q", got)
	}
}

func TestIdentityMiddlewareResolvesCaller(t *testing.T) {
	gate := identity.NewGate([]string{"secret"}, []string{"did:mui:issuer"}, nil)

	claims := &identity.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "did:mui:issuer",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	claims.Data.DID = "did:mui:alice"
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	var seen identity.Identity
	handler := Identity(gate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = identity.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !seen.Authenticated || seen.DID != "did:mui:alice" {
		t.Fatalf("unexpected identity: %+v", seen)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/blocks", nil))
	if seen != identity.Anonymous {
		t.Fatalf("missing token must degrade to anonymous: %+v", seen)
	}
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2, logging.NewDefault("test"))
	router := mux.NewRouter()
	router.Use(rl.Handler())
	router.Handle("/blocks", okHandler()).Methods(http.MethodGet)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("burst requests must pass: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request must be limited: %v", codes)
	}

	// A different caller has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("second caller limited: %d", rec.Code)
	}
}

func TestRateLimiterKeysAuthenticatedCallersByDID(t *testing.T) {
	rl := NewRateLimiter(1, 1, logging.NewDefault("test"))
	handler := rl.Handler()(okHandler())

	send := func(did, addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/blocks", nil)
		req.RemoteAddr = addr
		if did != "" {
			ctx := identity.ContextWithIdentity(req.Context(), identity.Identity{DID: did, Authenticated: true})
			req = req.WithContext(ctx)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("did:mui:alice", "10.0.0.1:1"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	// Same DID from a different address shares the bucket.
	if code := send("did:mui:alice", "10.0.0.9:9"); code != http.StatusTooManyRequests {
		t.Fatalf("same-DID request must share the bucket: %d", code)
	}
	// Anonymous from the first address is a separate bucket.
	if code := send("", "10.0.0.1:1"); code != http.StatusOK {
		t.Fatalf("anonymous caller must have its own bucket: %d", code)
	}
}
