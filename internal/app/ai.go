package app

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/holomate/backend/config"
	"github.com/holomate/backend/internal/adapters/aiengine"
	httpadapter "github.com/holomate/backend/internal/adapters/http"
	apiv1 "github.com/holomate/backend/internal/adapters/http/api/v1"
	"github.com/holomate/backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/usecase"
	pkglog "github.com/holomate/backend/pkg/log"
)

// NewAI assembles the companion service: companions, conversations and
// the message exchange backed by the generation engine.
func NewAI(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv, "ai-service")

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

	var engine aiengine.Client
	if cfg.AIEngineURL != "" {
		engine = aiengine.NewHTTPClient(cfg.AIEngineURL, cfg.AIEngineTimeout)
	} else {
		logger.Warn().Msg("generation engine url not set, companion replies disabled")
	}

	companions := usecase.NewCompanionService(logger, store.Companions())
	conversations := usecase.NewConversationService(logger, store.Conversations(), store.Companions())
	messages := usecase.NewMessageService(logger, store.Messages(), store.Conversations(), engine)
	voices := usecase.NewVoiceProfileService(logger, store.VoiceProfiles(), store.Companions())

	mw := authmw.NewAuthMiddleware(verifier, exemptions(cfg), cfg.ExemptPrefixes)
	apiRouter := apiv1.NewAIRouter(
		handlers.NewCompanionHandler(companions),
		handlers.NewConversationHandler(conversations, messages),
		handlers.NewVoiceProfileHandler(voices),
	)
	router := httpadapter.NewRouter(cfg, apiRouter, mw.Handler)

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, echo: e}, nil
}
