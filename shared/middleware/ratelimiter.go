package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/middleware/ratelimiter"
	"github.com/brainboard/brainboard/shared/utils"
)

func RateLimit(rl *ratelimiter.Limiter, getIdentity func(r *http.Request) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := getIdentity(r)
			if err != nil {
				utils.WriteErrorAndStatusCode(w, err)
				return
			}
			if !rl.Allow(identity) {
				utils.WriteJSONError(w, "Rate limit exceeded, try again later", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetIP extracts the client IP from RemoteAddr.
// X-Real-IP and X-Forwarded-For are ignored: the service is not deployed
// behind a proxy and those headers are client controlled.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if net.ParseIP(ip) == nil {
		return "", &errors.ErrorWithStatusCode{Message: fmt.Sprintf("invalid IP address: %s", ip), StatusCode: http.StatusBadRequest}
	}
	return ip, nil
}

// GetUserOrIP keys signed-in users by id and everyone else by IP.
func GetUserOrIP(r *http.Request) (string, error) {
	if user := GetUserFromContext(r); user != nil {
		return fmt.Sprintf("user_%d", user.Id), nil
	}
	ip, err := GetIP(r)
	if err != nil {
		return "", err
	}
	return "ip_" + ip, nil
}

// GetEmailFromBody reads the email field of a JSON body and restores the
// body for the handler.
func GetEmailFromBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", &errors.ErrorWithStatusCode{Message: "failed to read request body", StatusCode: http.StatusBadRequest}
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	var data struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", &errors.ErrorWithStatusCode{Message: "Body is invalid json", StatusCode: http.StatusBadRequest}
	}
	if data.Email == "" {
		return "", &errors.ErrorWithStatusCode{Message: "email field is required", StatusCode: http.StatusBadRequest}
	}
	return strings.ToLower(data.Email), nil
}
