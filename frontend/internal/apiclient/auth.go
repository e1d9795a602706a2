package apiclient

import (
	"context"
	"net/http"

	"github.com/brainboard/brainboard/frontend/internal/session"
	"github.com/brainboard/brainboard/shared/api"
)

// === Auth Methods ===

// Signup registers an account and returns the session it signs in as.
func (c *APIClient) Signup(ctx context.Context, creds api.CredentialsRequest) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/signup", creds)
}

// Login exchanges credentials for a session.
func (c *APIClient) Login(ctx context.Context, creds api.CredentialsRequest) (*session.Session, error) {
	return c.authenticate(ctx, "/auth/login", creds)
}

func (c *APIClient) authenticate(ctx context.Context, path string, creds api.CredentialsRequest) (*session.Session, error) {
	var resp api.TokenResponse
	if err := c.doJSON(ctx, http.MethodPost, path, creds, &resp); err != nil {
		return nil, err
	}
	return session.New(resp.Token)
}
