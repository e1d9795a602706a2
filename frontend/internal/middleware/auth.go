package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/brainboard/brainboard/frontend/internal/session"
	"github.com/brainboard/brainboard/shared/logger"
)

const CookieName = "accessToken"

type key int

const sessionKey key = iota

// Session attaches the viewer's session to the request. The token comes from
// the access cookie or a Bearer header; a missing, malformed or expired token
// leaves the viewer anonymous. now is injectable for tests.
func Session(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session.Anonymous()
			if token := tokenFrom(r); token != "" {
				parsed, err := session.New(token)
				switch {
				case err != nil:
					logger.Log.Debug("ignoring malformed session token", "error", err)
				case parsed.Expired(now()):
					logger.Log.Debug("ignoring expired session token")
				default:
					s = parsed
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, s)))
		})
	}
}

// NeedSession rejects anonymous viewers.
func NeedSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r).Authenticated() {
			http.Error(w, "Please sign in to open this board", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession never returns nil.
func GetSession(r *http.Request) *session.Session {
	if s, ok := r.Context().Value(sessionKey).(*session.Session); ok && s != nil {
		return s
	}
	return session.Anonymous()
}

func tokenFrom(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
