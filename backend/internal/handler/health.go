package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/brainboard/brainboard/shared/api"
	"github.com/brainboard/brainboard/shared/utils"
)

// Health is a liveness probe endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}

// Ready reports 503 while the store cannot serve requests.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.health.Ping(ctx); err != nil {
		utils.WriteJSONError(w, "store unavailable", http.StatusServiceUnavailable)
		return
	}
	utils.WriteJSON(w, http.StatusOK, api.StatusResponse{Status: "ok"})
}
