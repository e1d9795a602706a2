// Package session holds the explicit authentication context of a client.
// It replaces ambient, process-wide token state: whoever opens a board view
// constructs a Session and hands it to the API client and the view.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/jwt"
)

type Session struct {
	token  string
	claims jwt.Claims
	user   *domain.User
}

// Anonymous is a session without credentials, used for share-link views.
func Anonymous() *Session {
	return &Session{}
}

// New builds a session from a bearer token. The signature is not verified;
// the identity only drives the UI and the server re-checks every call.
func New(token string) (*Session, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Anonymous(), nil
	}
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return &Session{
		token:  token,
		claims: claims,
		user:   &domain.User{Id: claims.UserId, Email: claims.Email},
	}, nil
}

// WithUser returns a copy carrying the identity reported by the service.
func (s *Session) WithUser(u domain.User) *Session {
	next := *s
	next.user = &u
	return &next
}

func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.token
}

func (s *Session) Authenticated() bool {
	return s != nil && s.token != ""
}

// User is nil for anonymous sessions.
func (s *Session) User() *domain.User {
	if s == nil || s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ExpiresAt is zero when the token carries no exp claim.
func (s *Session) ExpiresAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.claims.ExpiresAt
}

func (s *Session) Expired(now time.Time) bool {
	exp := s.ExpiresAt()
	return !exp.IsZero() && !now.Before(exp)
}
