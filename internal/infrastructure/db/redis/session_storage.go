package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStorage keeps session values as plain Redis strings. Every write
// refreshes the key's TTL; a zero TTL keeps keys forever.
type SessionStorage struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStorage wraps client.
func NewSessionStorage(client *redis.Client, ttl time.Duration) *SessionStorage {
	return &SessionStorage{client: client, ttl: ttl}
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
