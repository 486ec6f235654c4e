package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
)

// Flash is a one-shot user notification produced by a mutation. The
// original UI flashed these across a redirect; here they sit in Redis
// until the client pops them, bounded by a TTL.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Store keeps per-client flash queues in Redis.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func flashKey(clientID string) string {
	return "flash:" + clientID
}

// Push appends a flash to the client's queue and refreshes the TTL.
func (s *Store) Push(ctx context.Context, clientID string, f Flash) error {
	if s.Client == nil {
		return nil
	}

	flashJSON, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal flash: %w", err)
	}

	pipe := s.Client.TxPipeline()
	pipe.RPush(ctx, flashKey(clientID), flashJSON)
	pipe.Expire(ctx, flashKey(clientID), s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push flash to Redis: %w", err)
	}
	return nil
}

// Pop drains and returns the client's pending flashes, oldest first.
func (s *Store) Pop(ctx context.Context, clientID string) ([]Flash, error) {
	if s.Client == nil {
		return nil, nil
	}

	pipe := s.Client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, flashKey(clientID), 0, -1)
	pipe.Del(ctx, flashKey(clientID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to pop flashes from Redis: %w", err)
	}

	raw, err := rangeCmd.Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		var f Flash
		if err := json.Unmarshal([]byte(item), &f); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flash: %w", err)
		}
		flashes = append(flashes, f)
	}
	return flashes, nil
}
