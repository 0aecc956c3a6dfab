package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/holomate/backend/config"
	internalhttp "github.com/holomate/backend/internal/adapters/http/internal"
)

// APIRouter registers a service's routes. Versioned routes go on the
// api group; routes that live outside the version prefix go on root.
type APIRouter interface {
	Register(root *echo.Echo, api *echo.Group)
}

type Router struct {
	cfg       *config.Config
	apiRouter APIRouter
	authMW    echo.MiddlewareFunc
}

func NewRouter(cfg *config.Config, apiRouter APIRouter, authMW echo.MiddlewareFunc) *Router {
	return &Router{cfg: cfg, apiRouter: apiRouter, authMW: authMW}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	// Deny by default: every route passes the auth middleware, exempt
	// paths are whitelisted inside it.
	e.Use(r.authMW)

	internalhttp.Register(e, r.cfg.AppName)
	apiGroup := e.Group(r.cfg.HTTPBasePath)
	r.apiRouter.Register(e, apiGroup)
}
