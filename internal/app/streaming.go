package app

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/holomate/backend/config"
	httpadapter "github.com/holomate/backend/internal/adapters/http"
	apiv1 "github.com/holomate/backend/internal/adapters/http/api/v1"
	"github.com/holomate/backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/adapters/presence"
	"github.com/holomate/backend/internal/usecase"
	pkglog "github.com/holomate/backend/pkg/log"
)

// NewStreaming assembles the streaming service: hologram devices, their
// presence heartbeats and streaming sessions.
func NewStreaming(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv, "streaming-service")

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := repo.NewStore(db)

	codec, err := usecase.NewJWTCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	verifier := usecase.NewAuthService(cfg, logger, store, usecase.NewPasswordHasher(), codec, usecase.NewRevocationList(), nil)

	var tracker *presence.Tracker
	var presenceSeam usecase.PresenceTracker
	tracker, err = presence.NewTracker(ctx, cfg.RedisAddr, cfg.PresenceTTL)
	if err != nil {
		logger.Warn().Err(err).Msg("redis connect failed, device presence disabled")
		tracker = nil
	} else {
		presenceSeam = tracker
	}

	devices := usecase.NewDeviceService(logger, store.Devices(), presenceSeam)
	sessions := usecase.NewStreamingService(logger, store.StreamingSessions(), store.Devices(), presenceSeam, cfg.StreamSessionTTL)

	mw := authmw.NewAuthMiddleware(verifier, exemptions(cfg), cfg.ExemptPrefixes)
	apiRouter := apiv1.NewStreamingRouter(
		handlers.NewDeviceHandler(devices),
		handlers.NewStreamingHandler(sessions),
	)
	router := httpadapter.NewRouter(cfg, apiRouter, mw.Handler)

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, presence: tracker, echo: e}, nil
}
