package handler

import (
	"net/http"
	"testing"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/errors"
	"github.com/stretchr/testify/assert"
)

func TestSignup(t *testing.T) {
	route := "/auth/signup"

	t.Run("returns a token", func(t *testing.T) {
		h := newTestHandler()
		h.auth = &MockAuthService{MockSignup: func(creds domain.Credentials) (string, error) {
			assert.Equal(t, "new@example.com", creds.Email)
			assert.Equal(t, "password123", creds.Password)
			return "signed", nil
		}}

		rr := serve(setupRouter(h, nil), createRequest(t, http.MethodPost, route, []byte(`{"email":"new@example.com","password":"password123"}`)))

		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.JSONEq(t, `{"token":"signed"}`, rr.Body.String())
	})

	t.Run("validation errors", func(t *testing.T) {
		bodies := []string{
			`{"email":"not-an-email","password":"password123"}`,
			`{"email":"a@example.com","password":"short"}`,
			`{"email":"a@example.com"}`,
			`{invalid`,
		}
		for _, body := range bodies {
			rr := serve(setupRouter(newTestHandler(), nil), createRequest(t, http.MethodPost, route, []byte(body)))
			assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		}
	})

	t.Run("conflict", func(t *testing.T) {
		h := newTestHandler()
		h.auth = &MockAuthService{MockSignup: func(domain.Credentials) (string, error) {
			return "", &errors.ErrorWithStatusCode{Message: "Email already registered", StatusCode: http.StatusConflict}
		}}

		rr := serve(setupRouter(h, nil), createRequest(t, http.MethodPost, route, []byte(`{"email":"a@example.com","password":"password123"}`)))

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.JSONEq(t, `{"error":"Email already registered"}`, rr.Body.String())
	})
}

func TestLogin(t *testing.T) {
	route := "/auth/login"

	t.Run("success", func(t *testing.T) {
		rr := serve(setupRouter(newTestHandler(), nil), createRequest(t, http.MethodPost, route, []byte(`{"email":"a@example.com","password":"password123"}`)))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"token"}`, rr.Body.String())
	})

	t.Run("invalid credentials", func(t *testing.T) {
		h := newTestHandler()
		h.auth = &MockAuthService{MockLogin: func(domain.Credentials) (string, error) {
			return "", &errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
		}}
		rr := serve(setupRouter(h, nil), createRequest(t, http.MethodPost, route, []byte(`{"email":"a@example.com","password":"password123"}`)))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestMe(t *testing.T) {
	t.Run("returns the stored identity", func(t *testing.T) {
		h := newTestHandler()
		h.auth = &MockAuthService{MockUser: func(id domain.UserId) (domain.User, error) {
			return domain.User{Id: id, Email: "user@example.com"}, nil
		}}
		rr := serve(setupRouter(h, testUser), createRequest(t, http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"id":123,"email":"user@example.com"}`, rr.Body.String())
	})

	t.Run("anonymous", func(t *testing.T) {
		rr := serve(setupRouter(newTestHandler(), nil), createRequest(t, http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
