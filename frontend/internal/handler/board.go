package handler

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/brainboard/brainboard/frontend/internal/canvas"
	"github.com/brainboard/brainboard/frontend/internal/middleware"
	internal_errors "github.com/brainboard/brainboard/shared/errors"
	"github.com/brainboard/brainboard/shared/logger"
	"github.com/go-chi/chi/v5"
)

// BoardGetHandler renders a snapshot of /b/{board} for a signed-in viewer.
func (h *Handler) BoardGetHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "board"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid board id", http.StatusBadRequest)
		return
	}
	s := middleware.GetSession(r)
	h.renderBoard(w, r, canvas.BoardRemote(h.APIClient.WithSession(s), id))
}

// ShareGetHandler renders a snapshot of the board behind /s/{token}.
func (h *Handler) ShareGetHandler(w http.ResponseWriter, r *http.Request) {
	s := middleware.GetSession(r)
	h.renderBoard(w, r, canvas.ShareRemote(h.APIClient.WithSession(s), chi.URLParam(r, "token")))
}

func (h *Handler) renderBoard(w http.ResponseWriter, r *http.Request, remote canvas.Remote) {
	s := middleware.GetSession(r)
	view, err := canvas.Open(r.Context(), remote, s, h.Public)
	if err != nil {
		writeError(w, err)
		return
	}
	defer view.Close()

	if h.Prober != nil {
		view.AutoFitImages(r.Context(), h.Prober)
	}

	cards := view.Cards()
	if checkNotModified(w, r, lastModified(cards)) {
		return
	}
	h.renderPage(w, pageData{
		Title:          view.Board().Title,
		Permission:     view.Permission(),
		Editable:       view.Editable(),
		BoardSize:      h.Public.Canvas.BoardSize,
		TextCardWidth:  h.Public.Canvas.TextCardWidth,
		TextCardHeight: h.Public.Canvas.TextCardHeight,
		Board:          template.HTML(h.TextProcessor.RenderBoard(cards)),
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) && e.StatusCode >= 400 {
		status = e.StatusCode
	}
	logger.Log.Debug("board page failed", "status", status, "error", err)
	http.Error(w, http.StatusText(status), status)
}
