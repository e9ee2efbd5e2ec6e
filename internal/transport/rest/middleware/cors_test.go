package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pulsedeck/internal/config"
)

func request(origin string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "http://192.168.1.10:8787/api/metrics", nil)
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestAllowOrigin(t *testing.T) {
	tests := []struct {
		name         string
		origin       string
		crossNetwork bool
		want         bool
	}{
		{"no origin header", "", false, true},
		{"same origin", "http://192.168.1.10:8787", false, true},
		{"cross origin denied by default", "http://192.168.1.20:3000", false, false},
		{"localhost allowed when enabled", "http://localhost:3000", true, true},
		{"loopback allowed when enabled", "http://127.0.0.1:5173", true, true},
		{"private address allowed when enabled", "http://192.168.1.20:3000", true, true},
		{"link local allowed when enabled", "http://169.254.10.10:3000", true, true},
		{"public address denied even when enabled", "http://203.0.113.9:3000", true, false},
		{"public hostname denied even when enabled", "https://example.com", true, false},
		{"garbage origin denied", "::not-a-url::", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{AllowCrossNetwork: tt.crossNetwork}
			if got := AllowOrigin(cfg, request(tt.origin)); got != tt.want {
				t.Fatalf("AllowOrigin(%q, crossNetwork=%v) = %v, want %v", tt.origin, tt.crossNetwork, got, tt.want)
			}
		})
	}
}

func TestCORS_SetsHeadersForAllowedOrigin(t *testing.T) {
	cfg := &config.Config{AllowCrossNetwork: true}
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("http://localhost:5173"))

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("allow-origin header %q", got)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Fatal("missing Vary: Origin")
	}
}

func TestCORS_NoHeadersForDeniedOrigin(t *testing.T) {
	cfg := &config.Config{}
	called := false
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("http://203.0.113.9:3000"))

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin header %q", got)
	}
	if !called {
		t.Fatal("denied origins still reach the handler, headers just stay off")
	}
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	cfg := &config.Config{AllowCrossNetwork: true}
	called := false
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest(http.MethodOptions, "http://192.168.1.10:8787/api/metrics", nil)
	r.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("preflight status %d, want 200", rec.Code)
	}
	if called {
		t.Fatal("preflight must not reach the handler")
	}
}
