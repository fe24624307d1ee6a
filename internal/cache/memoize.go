package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"
)

// Memoized wraps a Cache with a singleflight group so concurrent callers
// racing on the same key collapse into a single build, instead of each
// paying the cost of a cache miss independently (a thundering herd on a
// cold or just-expired key).
type Memoized struct {
	Cache Cache
	group singleflight.Group
}

func NewMemoized(c Cache) *Memoized {
	return &Memoized{Cache: c}
}

// GetOrSet returns the cached value at key, building it with build and
// storing it with ttl on a miss. Concurrent calls for the same key share
// one in-flight build.
func (m *Memoized) GetOrSet(ctx context.Context, key string, ttl time.Duration, dest any, build func(ctx context.Context) (any, error)) error {
	ok, err := m.Cache.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		val, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if err := m.Cache.Set(ctx, key, val, ttl); err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return err
	}

	// A second Get re-decodes into dest via the same JSON round-trip
	// every other caller uses, rather than attempting an any-to-dest
	// copy of the singleflight-shared value directly.
	_, err = m.Cache.Get(ctx, key, dest)
	if err != nil {
		return err
	}
	_ = v
	return nil
}
