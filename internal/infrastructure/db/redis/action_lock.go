package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// ActionLock is a best-effort mutual exclusion shared by every portal
// instance. Keys expire on their own if a holder dies. Each acquisition
// stores a random token, and Release only deletes a key that still carries
// the token this instance wrote.
type ActionLock struct {
	client *redis.Client

	mu     sync.Mutex
	tokens map[string]string
}

// NewActionLock creates an ActionLock wrapping the given Redis client.
func NewActionLock(client *redis.Client) *ActionLock {
	return &ActionLock{client: client, tokens: make(map[string]string)}
}

// Acquire reports whether the key was free and is now held for ttl.
func (l *ActionLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("action lock %s: %w", key, err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Release frees the key if this instance still holds it. A key that expired
// and was taken by another holder is left alone.
func (l *ActionLock) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, held := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !held {
		return nil
	}
	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		return fmt.Errorf("action lock %s release: %w", key, err)
	}
	return nil
}
