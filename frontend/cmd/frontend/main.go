package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/brainboard/brainboard/frontend/internal/router"
	"github.com/brainboard/brainboard/frontend/internal/setup"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/logger"
)

const (
	readTimeout  = 5 * time.Second
	writeTimeout = 30 * time.Second
)

func main() {
	var configFolder, addr string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&addr, "addr", ":8081", "listen address")
	flag.Parse()

	cfg := config.MustLoadPublic(configFolder)
	logger.Initialize(cfg.Log.Level, cfg.Log.JSON)

	deps, err := setup.SetupDependencies(cfg)
	if err != nil {
		logger.Log.Error("failed to set up dependencies", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupRouter(deps),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	logger.Log.Info("starting frontend", "addr", addr, "api", cfg.ApiURL)
	if err := server.ListenAndServe(); err != nil {
		logger.Log.Error("frontend stopped", "error", err)
		os.Exit(1)
	}
}
