package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	nats "github.com/nats-io/nats.go"
)

// UserEventClient publishes account lifecycle events for the other
// services (companion defaults, subscription provisioning).
type UserEventClient struct {
	conn    *nats.Conn
	subject string
}

func NewUserEventClient(conn *nats.Conn, subject string) *UserEventClient {
	return &UserEventClient{conn: conn, subject: subject}
}

func (c *UserEventClient) UserCreated(ctx context.Context, userID, email string) error {
	payload := map[string]interface{}{"id": userID, "email": email, "source": "auth"}
	return requestAck(ctx, c.conn, c.subject, payload)
}

func requestAck(ctx context.Context, conn *nats.Conn, subject string, payload interface{}) error {
	data, _ := json.Marshal(payload)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	msg, err := conn.RequestWithContext(ctx, subject, data)
	if err != nil {
		return err
	}
	if msg == nil {
		return fmt.Errorf("empty response from %s", subject)
	}
	var resp struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return err
	}
	if !resp.OK {
		if resp.Error != "" {
			return fmt.Errorf("%s", resp.Error)
		}
		return fmt.Errorf("request to %s failed", subject)
	}
	return nil
}
