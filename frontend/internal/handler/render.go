package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/brainboard/brainboard/shared/domain"
	"github.com/brainboard/brainboard/shared/logger"
)

var pageTemplate = template.Must(template.New("board").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.board{position:relative;width:{{.BoardSize}}px;height:{{.BoardSize}}px}
.card{position:absolute;box-sizing:border-box;padding:8px;background:#fff;border:1px solid #ddd;border-radius:6px}
.card-text{width:{{.TextCardWidth}}px;min-height:{{.TextCardHeight}}px}
.card-image img{width:100%;height:100%;object-fit:contain}
</style>
</head>
<body data-permission="{{.Permission}}" data-editable="{{.Editable}}">
<h1>{{.Title}}</h1>
{{.Board}}
</body>
</html>
`))

type pageData struct {
	Title          string
	Permission     domain.Permission
	Editable       bool
	BoardSize      float64
	TextCardWidth  float64
	TextCardHeight float64
	Board          template.HTML
}

// lastModified is the newest card update, or the zero time when no card
// carries one.
func lastModified(cards []domain.Card) time.Time {
	var latest time.Time
	for _, c := range cards {
		if c.UpdatedAt != nil && c.UpdatedAt.After(latest) {
			latest = *c.UpdatedAt
		}
	}
	return latest
}

// checkNotModified handles HTTP conditional GET requests using Last-Modified/If-Modified-Since.
// Returns true if a 304 Not Modified response was sent (caller should return early).
func checkNotModified(w http.ResponseWriter, r *http.Request, modified time.Time) bool {
	if modified.IsZero() {
		w.Header().Set("Cache-Control", "no-store")
		return false
	}
	modified = modified.UTC().Truncate(time.Second)

	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Vary", "Cookie, Authorization")
	w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))

	if ifModifiedSince := r.Header.Get("If-Modified-Since"); ifModifiedSince != "" {
		if t, err := http.ParseTime(ifModifiedSince); err == nil {
			if !modified.After(t.UTC().Truncate(time.Second)) {
				w.WriteHeader(http.StatusNotModified)
				return true
			}
		}
	}
	return false
}

func (h *Handler) renderPage(w http.ResponseWriter, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		logger.Log.Error("failed to render board page", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
