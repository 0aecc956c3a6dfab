package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Tracker keeps device heartbeats in Redis with a TTL, so the streaming
// service can answer "is this device online" without a table scan.
type Tracker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTracker(ctx context.Context, addr string, ttl time.Duration) (*Tracker, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &Tracker{client: client, ttl: ttl}, nil
}

// NewTrackerWithClient wires an existing client, used by tests.
func NewTrackerWithClient(client *redis.Client, ttl time.Duration) *Tracker {
	return &Tracker{client: client, ttl: ttl}
}

func key(deviceID string) string { return "presence:device:" + deviceID }

// Touch records a heartbeat for the device.
func (t *Tracker) Touch(ctx context.Context, deviceID string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return t.client.Set(ctx, key(deviceID), now, t.ttl).Err()
}

// Online reports whether the device heartbeat has not yet expired.
func (t *Tracker) Online(ctx context.Context, deviceID string) (bool, error) {
	_, err := t.client.Get(ctx, key(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LastSeen returns the recorded heartbeat time, or zero when absent.
func (t *Tracker) LastSeen(ctx context.Context, deviceID string) (time.Time, error) {
	val, err := t.client.Get(ctx, key(deviceID)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, val)
}

// Forget drops the device heartbeat, marking it offline immediately.
func (t *Tracker) Forget(ctx context.Context, deviceID string) error {
	return t.client.Del(ctx, key(deviceID)).Err()
}

func (t *Tracker) Close() error { return t.client.Close() }
