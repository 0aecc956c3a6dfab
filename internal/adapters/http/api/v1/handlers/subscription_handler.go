package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type SubscriptionHandler struct {
	service usecase.SubscriptionService
}

func NewSubscriptionHandler(s usecase.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: s}
}

func (h *SubscriptionHandler) Create(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.SubscriptionCreate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	subscription, err := h.service.Create(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, subscription)
}

func (h *SubscriptionHandler) Get(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	subscription, err := h.service.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, subscription)
}

func (h *SubscriptionHandler) List(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	subscriptions, err := h.service.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, subscriptions)
}

func (h *SubscriptionHandler) Cancel(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	subscription, err := h.service.Cancel(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, subscription)
}
