package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSecurityConfig(t *testing.T) {
	t.Parallel()
	config := DefaultSecurityConfig()

	assert.True(t, config.EnableCORS)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.ElementsMatch(t, []string{"GET", "OPTIONS"}, config.AllowedMethods)
	assert.Equal(t, 1<<30, config.MaxBitWidth)
	assert.Equal(t, 100_000, config.MaxRangeSizes)
	assert.Equal(t, 4096, config.MaxProfileBitWidth)
	assert.Less(t, config.MaxProfileBitWidth, config.MaxBitWidth)
}

func TestSecurityMiddleware_SecurityHeaders(t *testing.T) {
	t.Parallel()
	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()
			nextCalled := false
			handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})
			rec := httptest.NewRecorder()
			handler(rec, httptest.NewRequest(method, "/qubits", http.NoBody))

			assert.True(t, nextCalled, "next handler should be called for %s", method)
			h := rec.Header()
			assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"))
			assert.Equal(t, "DENY", h.Get("X-Frame-Options"))
			assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"))
			assert.Equal(t, "strict-origin-when-cross-origin", h.Get("Referrer-Policy"))
			assert.Equal(t, "default-src 'none'; frame-ancestors 'none'", h.Get("Content-Security-Policy"))
		})
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		config     SecurityConfig
		origin     string
		wantOrigin string
	}{
		{"disabled", SecurityConfig{EnableCORS: false}, "http://example.com", ""},
		{"wildcard", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "http://example.com", "*"},
		{"wildcard without origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "", "*"},
		{"listed origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://first.com", "http://second.com"}, AllowedMethods: []string{"GET"}}, "http://second.com", "http://second.com"},
		{"unlisted origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://allowed.com"}, AllowedMethods: []string{"GET"}}, "http://other.com", ""},
		{"missing origin", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://allowed.com"}, AllowedMethods: []string{"GET"}}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := SecurityMiddleware(tt.config, func(w http.ResponseWriter, r *http.Request) {})
			req := httptest.NewRequest("GET", "/gates", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			h := rec.Header()
			assert.Equal(t, tt.wantOrigin, h.Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.NotEmpty(t, h.Get("Access-Control-Allow-Methods"))
				assert.NotEmpty(t, h.Get("Access-Control-Allow-Headers"))
				assert.Equal(t, "86400", h.Get("Access-Control-Max-Age"))
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	t.Parallel()
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	req := httptest.NewRequest("OPTIONS", "/profile", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, nextCalled, "preflight must not reach the handler")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestSecurityMiddleware_PassesResponseThrough(t *testing.T) {
	t.Parallel()
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("from next"))
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest("GET", "/health", http.NoBody))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "from next", rec.Body.String())
}
