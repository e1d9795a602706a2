package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brainboard/brainboard/frontend/internal/session"
	"github.com/brainboard/brainboard/shared/api"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/utils"
)

const defaultTimeout = 15 * time.Second

// APIClient struct handles all communication with the persistence service.
type APIClient struct {
	BaseURL    string
	HttpClient *http.Client
	session    *session.Session
}

// New creates a client authenticated as s. A nil session is anonymous.
func New(baseURL string, s *session.Session) *APIClient {
	if s == nil {
		s = session.Anonymous()
	}
	return &APIClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HttpClient: &http.Client{Timeout: defaultTimeout},
		session:    s,
	}
}

// WithSession returns a client sharing the transport but acting as s.
func (c *APIClient) WithSession(s *session.Session) *APIClient {
	next := *c
	next.session = s
	return &next
}

func (c *APIClient) Session() *session.Session {
	return c.session
}

// do is the single, unified helper for making API requests.
func (c *APIClient) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create API request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token())
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unavailable: %w", err)
	}
	return resp, nil
}

// doJSON sends in (if not nil) as JSON and decodes a successful response
// into out (if not nil). Any status outside 2xx becomes an
// *ErrorWithStatusCode carrying the service's message.
func (c *APIClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	resp, err := c.do(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, out)
}

func decodeResponse(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := utils.Decode(resp.Body, out); err != nil {
		return fmt.Errorf("cannot decode %s response: %w", resp.Request.URL.Path, err)
	}
	return nil
}

func errorFromResponse(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	message := strings.TrimSpace(string(bodyBytes))
	var e api.ErrorResponse
	if json.Unmarshal(bodyBytes, &e) == nil && e.Error != "" {
		message = e.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return &internal_errors.ErrorWithStatusCode{Message: message, StatusCode: resp.StatusCode}
}
