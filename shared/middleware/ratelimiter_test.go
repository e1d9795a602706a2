package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/middleware/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("allows request within rate limit", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error getting identity", func(t *testing.T) {
		rl := ratelimiter.New(1, 1, time.Minute)
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "", errors.New("Test error") })(okHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("blocks request exceeding rate limit", func(t *testing.T) {
		rl := ratelimiter.New(0.01, 1, time.Minute)
		handler := RateLimit(rl, func(r *http.Request) (string, error) { return "user1", nil })(okHandler())

		w1 := httptest.NewRecorder()
		handler.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.NewRecorder()
		handler.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTooManyRequests, w2.Code)
		assert.JSONEq(t, `{"error":"Rate limit exceeded, try again later"}`, w2.Body.String())
	})
}

func TestGetIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		want       string
		wantErr    bool
	}{
		{name: "ipv4 with port", remoteAddr: "192.168.1.100:54321", want: "192.168.1.100"},
		{name: "ipv6 with port", remoteAddr: "[2001:db8::1]:8080", want: "2001:db8::1"},
		{name: "no port", remoteAddr: "127.0.0.1", want: "127.0.0.1"},
		{name: "garbage", remoteAddr: "not-an-ip", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = tt.remoteAddr
			req.Header.Set("X-Forwarded-For", "10.0.0.2")

			ip, err := GetIP(req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ip)
		})
	}
}

func TestGetUserOrIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/boards/1/images", nil)
	req.RemoteAddr = "203.0.113.50:1234"

	key, err := GetUserOrIP(req)
	require.NoError(t, err)
	assert.Equal(t, "ip_203.0.113.50", key)

	req = req.WithContext(context.WithValue(req.Context(), UserClaimsKey, &domain.User{Id: 9}))
	key, err = GetUserOrIP(req)
	require.NoError(t, err)
	assert.Equal(t, "user_9", key)
}

func TestGetEmailFromBody(t *testing.T) {
	t.Run("does not destroy body", func(t *testing.T) {
		body := `{"email":"Test@Example.com","password":"secretpass123"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))

		email, err := GetEmailFromBody(req)
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", email)

		after, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(after))
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"password":"x"}`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{`))
		_, err := GetEmailFromBody(req)
		assert.Error(t, err)
	})
}
