package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecurityHeaders(t *testing.T) {
	t.Run("plain http", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeaders(false, "")(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, rr.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, rr.Header().Get("Content-Security-Policy"))
	})

	t.Run("https with csp", func(t *testing.T) {
		rr := httptest.NewRecorder()
		SecurityHeaders(true, "default-src 'none'")(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
		assert.Equal(t, "default-src 'none'", rr.Header().Get("Content-Security-Policy"))
	})
}
