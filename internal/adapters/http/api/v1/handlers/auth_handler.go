package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type AuthHandler struct {
	service usecase.AuthService
}

func NewAuthHandler(s usecase.AuthService) *AuthHandler { return &AuthHandler{service: s} }

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	EmailOrUsername string `json:"email_or_username"`
	Password        string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	req := new(registerRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	user, err := h.service.Register(c.Request().Context(), requestIDFromCtx(c), req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			return res.ErrorJSON(c, http.StatusConflict, "email_taken", usecase.ErrEmailTaken.Error(), requestIDFromCtx(c), nil)
		}
		if errors.Is(err, usecase.ErrValidation) {
			return res.ErrorJSON(c, http.StatusUnprocessableEntity, "validation_failed", "invalid email or password", requestIDFromCtx(c), nil)
		}
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c echo.Context) error {
	req := new(loginRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	_, pair, err := h.service.Login(c.Request().Context(), requestIDFromCtx(c), req.EmailOrUsername, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			return res.Detail(c, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, usecase.ErrAccountInactive):
			return res.Detail(c, http.StatusUnauthorized, "Account is deactivated")
		default:
			return serviceError(c, err)
		}
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	req := new(refreshRequest)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	_, pair, err := h.service.Rotate(c.Request().Context(), requestIDFromCtx(c), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrRefreshTokenNotFound),
			errors.Is(err, usecase.ErrRefreshTokenExpired),
			errors.Is(err, usecase.ErrUserInactiveOrMissing):
			// One message for every rejection; the stored reasons stay
			// in the audit log.
			return res.Detail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
		default:
			return serviceError(c, err)
		}
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	// Same parsing the middleware accepted the token with, so the
	// revoked string is the verified one.
	token, _ := authmw.BearerToken(c)
	h.service.Logout(c.Request().Context(), requestIDFromCtx(c), token)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity resolved by the middleware together with the
// stored profile.
type UserHandler struct {
	service usecase.UserService
	auth    usecase.AuthService
}

func NewUserHandler(service usecase.UserService, auth usecase.AuthService) *UserHandler {
	return &UserHandler{service: service, auth: auth}
}

func (h *UserHandler) Me(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	user, err := h.service.Get(c.Request().Context(), identity.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.UserUpdate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	user, err := h.service.Update(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, user)
}

func (h *UserHandler) DeactivateMe(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.auth.Deactivate(c.Request().Context(), requestIDFromCtx(c), identity.UserID); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
