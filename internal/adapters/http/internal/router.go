package internalhttp

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Register attaches internal/health endpoints on the root mux, outside
// the versioned API group.
func Register(e *echo.Echo, service string) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": service})
	})
}
