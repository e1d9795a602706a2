package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/domain"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/jwt"
	"github.com/brainboard/brainboard/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	issued, err := jwt.New("server-secret", time.Hour).NewToken(domain.User{Id: 8, Email: "eight@example.com"})
	require.NoError(t, err)

	var path string
	var creds api.CredentialsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Empty(t, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		utils.WriteJSON(w, http.StatusOK, api.TokenResponse{Token: issued})
	}))
	t.Cleanup(srv.Close)
	c := New(srv.URL, nil)

	s, err := c.Login(context.Background(), api.CredentialsRequest{Email: "eight@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, "/auth/login", path)
	assert.Equal(t, "password123", creds.Password)
	assert.True(t, s.Authenticated())
	assert.Equal(t, issued, s.Token())
	require.NotNil(t, s.User())
	assert.Equal(t, domain.UserId(8), s.User().Id)
}

func TestSignup_Conflict(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signup", r.URL.Path)
		utils.WriteJSONError(w, "Email already registered", http.StatusConflict)
	})

	s, err := c.Signup(context.Background(), api.CredentialsRequest{Email: "taken@example.com", Password: "password123"})

	assert.Nil(t, s)
	var e *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusConflict, e.StatusCode)
	assert.Equal(t, "Email already registered", e.Message)
}
