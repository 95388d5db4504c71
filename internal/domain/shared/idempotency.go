package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of operations that must not run twice,
// such as a bulk payout file that was already imported
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It returns false when the key is
	// already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether key is currently claimed
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets a key so the operation may be retried
	Release(ctx context.Context, key string) error

	Close() error
}
