package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// SanitizeText strips every tag from card text and returns plain text.
// The policy escapes entities, so the result is unescaped again to keep
// characters like & and < that users typed.
func SanitizeText(text string) string {
	return html.UnescapeString(strict.Sanitize(strings.ReplaceAll(text, "\r\n", "\n")))
}
