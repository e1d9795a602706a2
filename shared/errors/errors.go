package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorWithStatusCode carries the HTTP status of a failed call.
// Errors without one are treated as internal (500) at handler level and as
// a generic failure by the client.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// StatusCode extracts the status from err, defaulting to 500.
func StatusCode(err error) int {
	var e *ErrorWithStatusCode
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// IsForbidden reports a server-side permission denial.
func IsForbidden(err error) bool {
	code := StatusCode(err)
	return code == http.StatusForbidden || code == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
