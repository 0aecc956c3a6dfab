package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

const (
	defaultPerPage = 50
	maxPerPage     = 200
)

// pageParams reads page/per_page query values, clamping to sane bounds.
func pageParams(c echo.Context) (int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.QueryParam("per_page"))
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

func requestIDFromCtx(c echo.Context) string {
	if reqID := c.Response().Header().Get(echo.HeaderXRequestID); reqID != "" {
		return reqID
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}

// serviceError maps usecase failures onto the shared error envelope.
func serviceError(c echo.Context, err error) error {
	traceID := requestIDFromCtx(c)
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		return res.ErrorJSON(c, http.StatusNotFound, "not_found", "resource not found", traceID, nil)
	case errors.Is(err, usecase.ErrValidation):
		return res.ErrorJSON(c, http.StatusUnprocessableEntity, "validation_failed", "invalid request payload", traceID, nil)
	case errors.Is(err, usecase.ErrSerialNumberExists):
		return res.ErrorJSON(c, http.StatusConflict, "conflict", usecase.ErrSerialNumberExists.Error(), traceID, nil)
	case errors.Is(err, usecase.ErrDeviceBusy):
		return res.ErrorJSON(c, http.StatusBadRequest, "device_busy", usecase.ErrDeviceBusy.Error(), traceID, nil)
	case errors.Is(err, usecase.ErrVoiceProfileActive):
		return res.ErrorJSON(c, http.StatusBadRequest, "voice_profile_active", usecase.ErrVoiceProfileActive.Error(), traceID, nil)
	case errors.Is(err, usecase.ErrConflict):
		return res.ErrorJSON(c, http.StatusConflict, "conflict", "resource conflict", traceID, nil)
	default:
		return res.ErrorJSON(c, http.StatusInternalServerError, "internal_error", "internal server error", traceID, nil)
	}
}
