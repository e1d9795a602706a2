package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	jwt_internal "github.com/brainboard/brainboard/shared/jwt"
	"github.com/brainboard/brainboard/shared/utils"
)

// Key to store the user in the request context
type key int

const UserClaimsKey key = 0

var errNoToken = &errors.ErrorWithStatusCode{Message: "Please sign-in", StatusCode: http.StatusUnauthorized}

// Auth authenticates requests by their bearer token.
type Auth struct {
	jwtService jwt_internal.JwtService
}

func NewAuth(jwtService jwt_internal.JwtService) *Auth {
	return &Auth{jwtService: jwtService}
}

// NeedAuth rejects requests without a valid token with 401.
func (a *Auth) NeedAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.extractUser(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserClaimsKey, user)))
		})
	}
}

// OptionalAuth populates the user when a valid token is present. Share link
// routes use it so a signed-in owner keeps their level.
func (a *Auth) OptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := a.extractUser(r); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserClaimsKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (a *Auth) extractUser(r *http.Request) (*domain.User, error) {
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || strings.TrimSpace(tokenString) == "" {
		return nil, errNoToken
	}

	claims, err := a.jwtService.DecodeToken(strings.TrimSpace(tokenString))
	if err != nil {
		return nil, err
	}
	return &domain.User{Id: claims.UserId, Email: claims.Email}, nil
}

// GetUserFromContext retrieves the user from the context
func GetUserFromContext(r *http.Request) *domain.User {
	user, ok := r.Context().Value(UserClaimsKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
