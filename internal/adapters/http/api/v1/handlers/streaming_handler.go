package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type StreamingHandler struct {
	service usecase.StreamingService
}

func NewStreamingHandler(s usecase.StreamingService) *StreamingHandler {
	return &StreamingHandler{service: s}
}

func (h *StreamingHandler) Start(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.SessionStart)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	session, err := h.service.Start(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, session)
}

func (h *StreamingHandler) Get(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	session, err := h.service.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, session)
}

func (h *StreamingHandler) List(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	page, perPage := pageParams(c)
	sessions, err := h.service.List(c.Request().Context(), identity.UserID, c.QueryParam("status"), page, perPage)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, sessions)
}

func (h *StreamingHandler) Heartbeat(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	session, err := h.service.Heartbeat(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, session)
}

func (h *StreamingHandler) End(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	session, err := h.service.End(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, session)
}

func (h *StreamingHandler) Delete(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.service.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
