package natsadapter

import (
	"encoding/json"
	"errors"

	nats "github.com/nats-io/nats.go"

	"github.com/holomate/backend/internal/tokenverify"
	"github.com/holomate/backend/internal/usecase"
)

// VerifyHandler answers token-verification requests from the other
// services over NATS so they never need the signing secret themselves.
type VerifyHandler struct {
	decoder   tokenverify.Decoder
	revoked   *usecase.RevocationList
	respondFn func(msg *nats.Msg, resp verifyResponse)
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	OK     bool           `json:"ok"`
	UserID string         `json:"user_id,omitempty"`
	Email  string         `json:"email,omitempty"`
	Error  string         `json:"error,omitempty"`
	Claims map[string]any `json:"claims,omitempty"`
}

func NewVerifyHandler(decoder tokenverify.Decoder, revoked *usecase.RevocationList) *VerifyHandler {
	return &VerifyHandler{decoder: decoder, revoked: revoked, respondFn: respond}
}

func (h *VerifyHandler) Subscribe(conn *nats.Conn, subject, queue string) error {
	if conn == nil {
		return errors.New("nats connection is nil")
	}
	_, err := conn.QueueSubscribe(subject, queue, h.handle)
	return err
}

func (h *VerifyHandler) handle(msg *nats.Msg) {
	var req verifyRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		h.respondFn(msg, verifyResponse{OK: false, Error: "invalid_payload"})
		return
	}
	if h.revoked != nil && h.revoked.Contains(req.Token) {
		h.respondFn(msg, verifyResponse{OK: false, Error: "revoked"})
		return
	}
	result, err := tokenverify.Verify(h.decoder, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTokenExpired):
			h.respondFn(msg, verifyResponse{OK: false, Error: "expired"})
		case errors.Is(err, tokenverify.ErrSubjectMissing):
			h.respondFn(msg, verifyResponse{OK: false, Error: "subject_missing"})
		default:
			h.respondFn(msg, verifyResponse{OK: false, Error: "invalid_token"})
		}
		return
	}
	h.respondFn(msg, verifyResponse{OK: true, UserID: result.UserID, Email: result.Email, Claims: result.Claims})
}

func respond(msg *nats.Msg, resp verifyResponse) {
	data, _ := json.Marshal(resp)
	_ = msg.Respond(data)
}
