package handler

import (
	"net/http"

	"github.com/brainboard/brainboard/frontend/internal/apiclient"
	"github.com/brainboard/brainboard/frontend/internal/canvas"
	"github.com/brainboard/brainboard/frontend/internal/markdown"
	"github.com/brainboard/brainboard/shared/config"
)

type Handler struct {
	Public        config.Public
	TextProcessor *markdown.TextProcessor
	APIClient     *apiclient.APIClient
	Prober        canvas.Prober
}

func New(publicCfg config.Public, textProcessor *markdown.TextProcessor, apiClient *apiclient.APIClient, prober canvas.Prober) *Handler {
	return &Handler{
		Public:        publicCfg,
		TextProcessor: textProcessor,
		APIClient:     apiClient,
		Prober:        prober,
	}
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
