package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type DeviceHandler struct {
	service usecase.DeviceService
}

func NewDeviceHandler(s usecase.DeviceService) *DeviceHandler {
	return &DeviceHandler{service: s}
}

func (h *DeviceHandler) Register(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.DeviceRegister)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	device, err := h.service.Register(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, device)
}

func (h *DeviceHandler) Get(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	device, err := h.service.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, device)
}

func (h *DeviceHandler) List(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	page, perPage := pageParams(c)
	devices, err := h.service.List(c.Request().Context(), identity.UserID, c.QueryParam("status"), page, perPage)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, devices)
}

func (h *DeviceHandler) Update(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.DeviceUpdate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	device, err := h.service.Update(c.Request().Context(), identity.UserID, c.Param("id"), *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, device)
}

func (h *DeviceHandler) Delete(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.service.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DeviceHandler) Heartbeat(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	device, err := h.service.Heartbeat(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, device)
}
