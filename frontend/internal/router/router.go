package router

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/brainboard/brainboard/frontend/internal/handler"
	"github.com/brainboard/brainboard/frontend/internal/middleware"
	"github.com/brainboard/brainboard/frontend/internal/setup"
	"github.com/brainboard/brainboard/shared/metrics"
	mw "github.com/brainboard/brainboard/shared/middleware"
)

// Board pages embed user content; images come from the persistence service.
const frontendCSP = "default-src 'self'; img-src 'self' data: https: http:; style-src 'self' 'unsafe-inline'; frame-ancestors 'none'"

func SetupRouter(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeaders(deps.HTTPS, frontendCSP))
	r.Use(middleware.Session(time.Now))

	r.Get("/health", handler.HealthHandler)
	r.Get("/s/{token}", deps.Handler.ShareGetHandler)
	r.With(middleware.NeedSession).Get("/b/{board}", deps.Handler.BoardGetHandler)

	return r
}
