// Package memory keeps a short per-client history of exchanges in
// Redis so conversational replies can reference recent context.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Exchange is one utterance/response pair.
type Exchange struct {
	Utterance string    `json:"utterance"`
	Response  string    `json:"response"`
	At        time.Time `json:"at"`
}

// Store persists exchanges per client with a bounded length and TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	limit  int64
}

func NewStore(client *redis.Client, ttl time.Duration, limit int64) *Store {
	if limit <= 0 {
		limit = 20
	}
	return &Store{client: client, ttl: ttl, limit: limit}
}

func key(clientID string) string {
	return "memory:" + clientID
}

// Append records an exchange, trims the history to the configured
// limit, and refreshes the TTL.
func (s *Store) Append(ctx context.Context, clientID string, ex Exchange) error {
	if ex.At.IsZero() {
		ex.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("failed to marshal exchange: %w", err)
	}

	k := key(clientID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, k, raw)
	pipe.LTrim(ctx, k, 0, s.limit-1)
	if s.ttl > 0 {
		pipe.Expire(ctx, k, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to persist exchange: %w", err)
	}
	return nil
}

// Recent returns up to n exchanges, newest first.
func (s *Store) Recent(ctx context.Context, clientID string, n int64) ([]Exchange, error) {
	if n <= 0 || n > s.limit {
		n = s.limit
	}
	raws, err := s.client.LRange(ctx, key(clientID), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	exchanges := make([]Exchange, 0, len(raws))
	for _, raw := range raws {
		var ex Exchange
		if err := json.Unmarshal([]byte(raw), &ex); err != nil {
			continue
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}
