package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache extends the teacher's streaming-resolver cache from a
// bare Get/Set pair to the full contract: Update preserves the key's
// current TTL (read via PTTL, rewritten with the same duration) and
// Keys/WaitUntilReady are added for pattern listing and readiness.
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(url string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("cache: parse redis url: %w", err)
	}
	return &RedisCache{Client: redis.NewClient(opt)}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, key, b, ttl).Err()
}

// Update preserves the key's current TTL rather than resetting it,
// matching the contract's "update(k,v) preserves existing TTL".
// A key with no TTL (persistent, or -1 from PTTL) is rewritten without
// one too. A key that has already expired (PTTL -2) is treated as a
// fresh Set with no TTL, since there's nothing left to preserve.
func (c *RedisCache) Update(ctx context.Context, key string, value any) error {
	ttl, err := c.Client.PTTL(ctx, key).Result()
	if err != nil {
		return err
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		return c.Client.Set(ctx, key, b, 0).Err()
	}
	return c.Client.Set(ctx, key, b, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := c.Client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	return keys, iter.Err()
}

func (c *RedisCache) WaitUntilReady(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
