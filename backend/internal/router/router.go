package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brainboard/brainboard/backend/internal/setup"
	"github.com/brainboard/brainboard/shared/metrics"
	mw "github.com/brainboard/brainboard/shared/middleware"
	"github.com/brainboard/brainboard/shared/utils"
)

// JSON API only, no scripts or styles are served.
const backendCSP = "default-src 'none'; img-src 'self'; frame-ancestors 'none'"

// New creates the router with every route of the persistence service.
// IMPORTANT! a limiter passed to RateLimit is shared by every route it wraps
func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Public.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeaders(deps.Config.Public.Server.HTTPS, backendCSP))

	h := deps.Handler
	authMw := deps.AuthMiddleware
	limiters := deps.Limiters

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/uploads/*", h.ServeImage)

	r.Route("/auth", func(r chi.Router) {
		r.Use(mw.RateLimit(limiters.AuthByIP, mw.GetIP))
		r.Post("/signup", h.Signup)
		r.With(mw.RateLimit(limiters.AuthByEmail, mw.GetEmailFromBody)).Post("/login", h.Login)
	})

	// Logged-in user routes
	r.Group(func(r chi.Router) {
		r.Use(authMw.NeedAuth())

		r.Get("/me", h.Me)
		r.Get("/boards", h.GetBoards)
		r.Post("/boards", h.CreateBoard)
		r.Get("/boards/{id}", h.GetBoardDetail)
		r.Put("/boards/{id}", h.RenameBoard)
		r.Delete("/boards/{id}", h.DeleteBoard)
		r.Get("/boards/{id}/cards", h.GetCards)
		r.Post("/boards/{id}/cards", h.CreateCard)
		r.Get("/boards/{id}/access", h.GetAccessList)
		r.Post("/boards/{id}/access", h.GrantAccess)
		r.Delete("/boards/{id}/access/{grantId}", h.RevokeAccess)
		r.Get("/boards/{id}/share", h.GetShareLinks)
		r.Post("/boards/{id}/share", h.CreateShareLink)
		r.Delete("/boards/{id}/share/{shareId}", h.DeleteShareLink)
		r.With(mw.RateLimit(limiters.Upload, mw.GetUserOrIP)).Post("/boards/{id}/thumbnail", h.UploadThumbnail)
		r.Delete("/boards/{id}/thumbnail", h.DeleteThumbnail)
		r.With(mw.RateLimit(limiters.Upload, mw.GetUserOrIP)).Post("/boards/{id}/images", h.UploadImage)
		r.Put("/cards/{cardId}", h.UpdateCard)
		r.Delete("/cards/{cardId}", h.DeleteCard)
	})

	// Share link routes work anonymously; a signed-in viewer keeps their own level
	r.Group(func(r chi.Router) {
		r.Use(authMw.OptionalAuth())

		r.Get("/share/{token}", h.GetSharedBoard)
		r.Get("/share/{token}/cards", h.GetCards)
		r.Post("/share/{token}/cards", h.CreateCard)
		r.Put("/share/{token}/cards/{cardId}", h.UpdateCard)
		r.Delete("/share/{token}/cards/{cardId}", h.DeleteCard)
		r.With(mw.RateLimit(limiters.Upload, mw.GetUserOrIP)).Post("/share/{token}/images", h.UploadImage)
		r.Get("/permission/{token}", h.GetSharePermission)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSONError(w, "Not found", http.StatusNotFound)
	})

	return r
}
