package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/holomate/backend/internal/adapters/http/middleware"
	"github.com/holomate/backend/internal/domain"
	"github.com/holomate/backend/internal/usecase"
	res "github.com/holomate/backend/pkg/http"
)

type ConversationHandler struct {
	conversations usecase.ConversationService
	messages      usecase.MessageService
}

func NewConversationHandler(conversations usecase.ConversationService, messages usecase.MessageService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, messages: messages}
}

func (h *ConversationHandler) Create(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.ConversationCreate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	conversation, err := h.conversations.Create(c.Request().Context(), identity.UserID, *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, conversation)
}

func (h *ConversationHandler) Get(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	conversation, err := h.conversations.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, conversation)
}

func (h *ConversationHandler) List(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	conversations, err := h.conversations.List(c.Request().Context(), identity.UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, conversations)
}

func (h *ConversationHandler) Update(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.ConversationUpdate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	conversation, err := h.conversations.Update(c.Request().Context(), identity.UserID, c.Param("id"), *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, conversation)
}

func (h *ConversationHandler) Delete(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.conversations.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type messageExchange struct {
	UserMessage      *domain.Message `json:"user_message"`
	CompanionMessage *domain.Message `json:"companion_message,omitempty"`
}

func (h *ConversationHandler) CreateMessage(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	req := new(usecase.MessageCreate)
	if err := c.Bind(req); err != nil {
		return res.ErrorJSON(c, http.StatusBadRequest, "bad_request", "invalid payload", requestIDFromCtx(c), nil)
	}
	userMsg, reply, err := h.messages.Create(c.Request().Context(), identity.UserID, c.Param("id"), *req)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusCreated, messageExchange{UserMessage: userMsg, CompanionMessage: reply})
}

type messagePage struct {
	Messages []domain.Message `json:"messages"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PerPage  int              `json:"per_page"`
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	page, perPage := pageParams(c)
	messages, total, err := h.messages.List(c.Request().Context(), identity.UserID, c.Param("id"), page, perPage)
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, messagePage{Messages: messages, Total: total, Page: page, PerPage: perPage})
}

func (h *ConversationHandler) GetMessage(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	message, err := h.messages.Get(c.Request().Context(), identity.UserID, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return res.JSON(c, http.StatusOK, message)
}

func (h *ConversationHandler) DeleteMessage(c echo.Context) error {
	identity := authmw.IdentityFrom(c)
	if identity == nil {
		return res.Detail(c, http.StatusUnauthorized, "Not authenticated")
	}
	if err := h.messages.Delete(c.Request().Context(), identity.UserID, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
