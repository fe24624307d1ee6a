// Package cache defines the Shared Cache contract (§4.5): a key/value
// store with TTL, update-preserves-TTL semantics, and pattern listing,
// implemented by a Redis-backed store for production and an in-memory
// store for tests.
package cache

import (
	"context"
	"time"
)

// Cache is the Shared Cache contract. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Update overwrites value without touching the key's existing TTL.
	Update(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
	WaitUntilReady(ctx context.Context) error
}
