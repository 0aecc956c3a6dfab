package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type CompanionHandler struct {
	service usecase.CompanionService
}

func NewCompanionHandler(s usecase.CompanionService) *CompanionHandler {
	return &CompanionHandler{service: s}
}

func (h *CompanionHandler) Create(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.CompanionCreate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	companion, err := h.service.Create(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, companion)
}

func (h *CompanionHandler) Get(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	companion, err := h.service.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, companion)
}

func (h *CompanionHandler) List(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	companions, err := h.service.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, companions)
}

func (h *CompanionHandler) Update(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.CompanionUpdate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	companion, err := h.service.Update(c.Request().Context(), identity.UserID, c.Param("id"), *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, companion)
}

func (h *CompanionHandler) Delete(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.service.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
