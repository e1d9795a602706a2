package validation

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ValidateAndParseMultipart caps the request body at maxSize and parses the
// multipart form. Exceeding the cap yields ErrPayloadTooLarge; any other
// parse failure is returned wrapped.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
		}
		return fmt.Errorf("failed to parse multipart form: %w", err)
	}

	return nil
}

// CalculateMaxRequestSize returns the maximum request size including overhead buffer.
func CalculateMaxRequestSize(maxFileSize int64, bufferSize int64) int64 {
	return maxFileSize + bufferSize
}

// FormatSizeMB converts bytes to megabytes for user-friendly error messages.
func FormatSizeMB(bytes int64) float64 {
	return float64(bytes) / (1024 * 1024)
}
