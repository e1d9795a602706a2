package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/brainboard/brainboard/backend/internal/handler"
	"github.com/brainboard/brainboard/backend/internal/service"
	"github.com/brainboard/brainboard/backend/internal/storage/fs"
	"github.com/brainboard/brainboard/backend/internal/storage/mem"
	"github.com/brainboard/brainboard/backend/internal/storage/pg"
	"github.com/brainboard/brainboard/shared/config"
	"github.com/brainboard/brainboard/shared/jwt"
	mw "github.com/brainboard/brainboard/shared/middleware"
	rl "github.com/brainboard/brainboard/shared/middleware/ratelimiter"
)

const (
	uploadsPrefix = "/uploads"
	limiterTTL    = time.Hour
)

// Limiters are the token buckets shared by the rate limited routes.
type Limiters struct {
	AuthByIP    *rl.Limiter
	AuthByEmail *rl.Limiter
	Upload      *rl.Limiter
}

func (l Limiters) All() []*rl.Limiter {
	return []*rl.Limiter{l.AuthByIP, l.AuthByEmail, l.Upload}
}

// Storage is the authoritative board store: in memory or PostgreSQL.
type Storage interface {
	service.AuthStorage
	service.BoardStorage
	service.CardStorage
	handler.HealthChecker
	Cleanup() error
}

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        Storage
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	Limiters       Limiters
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	images, err := fs.New(cfg.Public.Server.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("upload storage: %w", err)
	}

	jwtService := jwt.New(cfg.JwtKey(), cfg.TokenTTL())

	access := service.NewAccess(storage)
	auth := service.NewAuth(storage, jwtService)
	board := service.NewBoard(storage, access)
	card := service.NewCard(storage, access)
	image := service.NewImage(images, access, cfg.Public.Server.ImageMimeTypes, uploadsPrefix)

	h := handler.New(auth, board, card, image, storage, &cfg.Public)

	authRate := cfg.Public.Server.AuthRate
	uploadRate := cfg.Public.Server.UploadRate
	return &Dependencies{
		Config:         cfg,
		Storage:        storage,
		Handler:        h,
		Jwt:            jwtService,
		AuthMiddleware: mw.NewAuth(jwtService),
		Limiters: Limiters{
			AuthByIP:    rl.New(authRate.PerSecond(), authRate.Burst, limiterTTL),
			AuthByEmail: rl.New(authRate.PerSecond(), authRate.Burst, limiterTTL),
			Upload:      rl.New(uploadRate.PerSecond(), uploadRate.Burst, limiterTTL),
		},
	}, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Public.Server.Store {
	case "postgres":
		if !cfg.Pg().Configured() {
			return nil, fmt.Errorf("store is postgres but pg host, user or dbname is missing")
		}
		storage, err := pg.New(ctx, cfg.Pg())
		if err != nil {
			return nil, fmt.Errorf("postgres storage: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Cleanup()
			return nil, err
		}
		return storage, nil
	default:
		return mem.New(), nil
	}
}
