package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/brainboard/brainboard/backend/internal/service"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/errors"
	mw "github.com/brainboard/brainboard/shared/middleware"
	"github.com/go-chi/chi/v5"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth   service.AuthService
	board  service.BoardService
	card   service.CardService
	image  service.ImageService
	health HealthChecker
	cfg    *config.Public
}

func New(auth service.AuthService, board service.BoardService, card service.CardService, image service.ImageService, health HealthChecker, cfg *config.Public) *Handler {
	return &Handler{
		auth:   auth,
		board:  board,
		card:   card,
		image:  image,
		health: health,
		cfg:    cfg,
	}
}

func parseIdParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &errors.ErrorWithStatusCode{Message: "Invalid " + name, StatusCode: http.StatusBadRequest}
	}
	return id, nil
}

// viewer collects the request's identity: the user set by the auth
// middleware and the share token of /share/{token} routes.
func viewer(r *http.Request) service.Viewer {
	return service.Viewer{
		User:  mw.GetUserFromContext(r),
		Token: chi.URLParam(r, "token"),
	}
}

// boardScope resolves the board a card route targets: the {id} of board
// routes, or the board behind the share token of share routes.
func (h *Handler) boardScope(r *http.Request) (int64, service.Viewer, error) {
	v := viewer(r)
	if v.Token != "" {
		link, err := h.board.ShareLink(v.Token)
		if err != nil {
			return 0, v, err
		}
		return link.BoardId, v, nil
	}
	id, err := parseIdParam(r, "id")
	return id, v, err
}
