package ports

import (
	"context"
	"time"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// SessionStorage is the durable key-value medium a Session Store persists into.
// Implementations are scoped to a single browser by the caller.
type SessionStorage interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes every given key. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}

// TokenDecoder reads the locally-inspectable claims of an opaque credential.
// It never verifies signatures; the backend does that.
type TokenDecoder interface {
	Decode(token string) (domain.TokenClaims, error)
}

// ActionLock guards a named action across portal instances.
type ActionLock interface {
	// Acquire reports whether the caller now owns key for at most ttl.
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}
