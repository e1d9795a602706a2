package setup

import (
	"fmt"

	"github.com/brainboard/brainboard/frontend/internal/apiclient"
	"github.com/brainboard/brainboard/frontend/internal/handler"
	"github.com/brainboard/brainboard/frontend/internal/imageprobe"
	"github.com/brainboard/brainboard/frontend/internal/markdown"
	"github.com/brainboard/brainboard/shared/config"
)

type Dependencies struct {
	Handler *handler.Handler
	Public  config.Public
	HTTPS   bool
}

// SetupDependencies wires the board page server against the persistence
// service at cfg.ApiURL. Requests carry the viewer's own session.
func SetupDependencies(cfg config.Public) (*Dependencies, error) {
	prober, err := imageprobe.New(cfg.ApiURL)
	if err != nil {
		return nil, fmt.Errorf("image prober: %w", err)
	}
	apiClient := apiclient.New(cfg.ApiURL, nil)
	h := handler.New(cfg, markdown.New(), apiClient, prober)

	return &Dependencies{
		Handler: h,
		Public:  cfg,
		HTTPS:   cfg.Server.HTTPS,
	}, nil
}
