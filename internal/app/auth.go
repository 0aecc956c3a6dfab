package app

import (
	"context"

	"github.com/labstack/echo/v4"
	nats "github.com/nats-io/nats.go"

	"github.com/holomate/backend/config"
	httpadapter "github.com/holomate/backend/internal/adapters/http"
	apiv1 "github.com/holomate/backend/internal/adapters/http/api/v1"
	"github.com/holomate/backend/internal/adapters/http/api/v1/handlers"
	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	natsadapter "github.com/holomate/backend/internal/adapters/nats"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/usecase"
	pkglog "github.com/holomate/backend/pkg/log"
)

// NewAuth assembles the auth service: credential endpoints, the user
// profile surface, subscriptions, and the NATS verify responder.
func NewAuth(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv, "auth-service")

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := repo.NewStore(db)

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats connect failed, user events and verify responder disabled")
		nc = nil
	}

	codec, err := usecase.NewJWTCodec(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		return nil, err
	}
	revoked := usecase.NewRevocationList()
	hasher := usecase.NewPasswordHasher()

	var events usecase.UserEventPublisher
	if nc != nil {
		events = natsadapter.NewUserEventClient(nc, cfg.NATSUserCreateSubject)
	}

	auth := usecase.NewAuthService(cfg, logger, store, hasher, codec, revoked, events)
	users := usecase.NewUserService(logger, store.Users())
	subscriptions := usecase.NewSubscriptionService(logger, store.Subscriptions())

	if nc != nil {
		verify := natsadapter.NewVerifyHandler(codec, revoked)
		if err := verify.Subscribe(nc, cfg.NATSVerifySubject, cfg.AppName); err != nil {
			logger.Warn().Err(err).Msg("verify responder subscribe failed")
		}
	}

	mw := authmw.NewAuthMiddleware(auth, exemptions(cfg), cfg.ExemptPrefixes)
	apiRouter := apiv1.NewAuthRouter(
		handlers.NewAuthHandler(auth),
		handlers.NewUserHandler(users, auth),
		handlers.NewSubscriptionHandler(subscriptions),
	)
	router := httpadapter.NewRouter(cfg, apiRouter, mw.Handler)

	e := echo.New()
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, natsConn: nc, echo: e}, nil
}
