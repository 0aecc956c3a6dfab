package natsadapter

import (
	"encoding/json"
	"testing"

	nats "github.com/nats-io/nats.go"

	"github.com/holomate/backend/internal/usecase"
)

type stubDecoder struct {
	claims map[string]interface{}
	err    error
}

func (d stubDecoder) Decode(string) (map[string]interface{}, error) {
	return d.claims, d.err
}

func handleRaw(t *testing.T, h *VerifyHandler, payload []byte) verifyResponse {
	t.Helper()
	var got *verifyResponse
	h.respondFn = func(_ *nats.Msg, resp verifyResponse) { got = &resp }
	h.handle(&nats.Msg{Data: payload})
	if got == nil {
		t.Fatalf("no response sent")
	}
	return *got
}

func handleToken(t *testing.T, h *VerifyHandler, token string) verifyResponse {
	t.Helper()
	payload, _ := json.Marshal(verifyRequest{Token: token})
	return handleRaw(t, h, payload)
}

func TestVerifyHandlerSuccess(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{claims: map[string]interface{}{
		"sub":   "user-1",
		"email": "user@example.com",
	}}, usecase.NewRevocationList())

	resp := handleToken(t, h, "good-token")
	if !resp.OK {
		t.Fatalf("expected ok, got error %q", resp.Error)
	}
	if resp.UserID != "user-1" || resp.Email != "user@example.com" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestVerifyHandlerRevoked(t *testing.T) {
	revoked := usecase.NewRevocationList()
	revoked.Add("revoked-token")
	h := NewVerifyHandler(stubDecoder{claims: map[string]interface{}{"sub": "user-1"}}, revoked)

	resp := handleToken(t, h, "revoked-token")
	if resp.OK || resp.Error != "revoked" {
		t.Fatalf("expected revoked, got %+v", resp)
	}
}

func TestVerifyHandlerExpired(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{err: usecase.ErrTokenExpired}, usecase.NewRevocationList())

	resp := handleToken(t, h, "stale-token")
	if resp.OK || resp.Error != "expired" {
		t.Fatalf("expected expired, got %+v", resp)
	}
}

func TestVerifyHandlerSubjectMissing(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{claims: map[string]interface{}{"email": "user@example.com"}}, usecase.NewRevocationList())

	resp := handleToken(t, h, "subless-token")
	if resp.OK || resp.Error != "subject_missing" {
		t.Fatalf("expected subject_missing, got %+v", resp)
	}
}

func TestVerifyHandlerInvalid(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{err: usecase.ErrTokenInvalid}, usecase.NewRevocationList())

	resp := handleToken(t, h, "bad-token")
	if resp.OK || resp.Error != "invalid_token" {
		t.Fatalf("expected invalid_token, got %+v", resp)
	}
}

func TestVerifyHandlerBadPayload(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{}, usecase.NewRevocationList())

	resp := handleRaw(t, h, []byte("{not json"))
	if resp.OK || resp.Error != "invalid_payload" {
		t.Fatalf("expected invalid_payload, got %+v", resp)
	}
}

func TestVerifyHandlerSubscribeNilConn(t *testing.T) {
	h := NewVerifyHandler(stubDecoder{}, usecase.NewRevocationList())
	if err := h.Subscribe(nil, "auth.verifyJWT", "auth"); err == nil {
		t.Fatalf("nil connection must be rejected")
	}
}
