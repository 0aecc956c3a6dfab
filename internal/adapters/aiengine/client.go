package aiengine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client talks to the companion inference engine that generates
// replies for conversation messages.
type Client interface {
	GenerateReply(ctx context.Context, companionID, conversationID, userMessage string) (string, error)
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) Client {
	return &httpClient{baseURL: baseURL, client: &http.Client{Timeout: timeout}}
}

func (c *httpClient) GenerateReply(ctx context.Context, companionID, conversationID, userMessage string) (string, error) {
	payload := map[string]interface{}{
		"companion_id":    companionID,
		"conversation_id": conversationID,
		"message":         userMessage,
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := c.post(ctx, "/v1/generate", payload, &resp); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	op := func() error {
		body, err := json.Marshal(payload)
		if err != nil {
			return backoff.Permanent(err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s%s", c.baseURL, path), bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		res, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()
		if res.StatusCode >= 500 {
			return fmt.Errorf("ai engine error: %d", res.StatusCode)
		}
		if res.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("ai engine rejected request: %d", res.StatusCode))
		}
		if out != nil {
			if err := json.NewDecoder(res.Body).Decode(out); err != nil {
				return backoff.Permanent(err)
			}
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 3 * time.Second
	return backoff.Retry(op, backoff.WithContext(bo, ctx))
}
