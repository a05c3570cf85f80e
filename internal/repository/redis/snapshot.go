package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func snapshotKey(gameID string) string { return "warzone:" + gameID + ":snapshot" }
func eventsKey(gameID string) string   { return "warzone:" + gameID + ":events" }

// SetSnapshot stores the latest snapshot JSON. A zero ttl keeps it forever.
func (c *Client) SetSnapshot(ctx context.Context, gameID string, state json.RawMessage, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, snapshotKey(gameID), []byte(state), ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot JSON, or nil if none is cached.
func (c *Client) GetSnapshot(ctx context.Context, gameID string) (json.RawMessage, error) {
	data, err := c.rdb.Get(ctx, snapshotKey(gameID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return json.RawMessage(data), nil
}

// PushEvent appends an event to the game's recent event list, trimming it to
// the newest keep entries.
func (c *Client) PushEvent(ctx context.Context, gameID string, event json.RawMessage, keep int64) error {
	pipe := c.rdb.TxPipeline()
	pipe.RPush(ctx, eventsKey(gameID), []byte(event))
	if keep > 0 {
		pipe.LTrim(ctx, eventsKey(gameID), -keep, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push event: %w", err)
	}
	return nil
}

// RecentEvents returns up to n of the newest events, oldest first.
func (c *Client) RecentEvents(ctx context.Context, gameID string, n int64) ([]json.RawMessage, error) {
	if n <= 0 {
		return nil, nil
	}
	vals, err := c.rdb.LRange(ctx, eventsKey(gameID), -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	out := make([]json.RawMessage, len(vals))
	for i, v := range vals {
		out[i] = json.RawMessage(v)
	}
	return out, nil
}

// DeleteGame removes every cached key of a game.
func (c *Client) DeleteGame(ctx context.Context, gameID string) error {
	if err := c.rdb.Del(ctx, snapshotKey(gameID), eventsKey(gameID)).Err(); err != nil {
		return fmt.Errorf("delete game data: %w", err)
	}
	return nil
}
