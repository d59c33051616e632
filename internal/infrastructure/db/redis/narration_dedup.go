package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const narrationTTL = 24 * time.Hour

// NarrationDedup remembers which memories already have narration audio.
// Key format: narration:<memory_id>
type NarrationDedup struct {
	client *redis.Client
}

// NewNarrationDedup creates a NarrationDedup wrapping the given Redis client.
func NewNarrationDedup(client *redis.Client) *NarrationDedup {
	return &NarrationDedup{client: client}
}

// IsDuplicate reports whether narration for the memory was already uploaded.
func (d *NarrationDedup) IsDuplicate(ctx context.Context, memoryID int64) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(memoryID)).Result()
	if err != nil {
		return false, fmt.Errorf("narration dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the memory has narration (expires after narrationTTL).
func (d *NarrationDedup) Mark(ctx context.Context, memoryID int64) error {
	return d.client.Set(ctx, d.key(memoryID), "1", narrationTTL).Err()
}

func (d *NarrationDedup) key(memoryID int64) string {
	return fmt.Sprintf("narration:%d", memoryID)
}
