package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RedisCache backs the response cache with a shared Redis instance,
// letting multiple evaluation-engine processes share hits across runs.
// In-flight coalescing is still process-local (singleflight.Group has no
// cross-process equivalent here); cross-process races at worst cause a
// handful of duplicate provider calls racing to write the same key,
// which is safe since the value is idempotent for a given key.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	group  singleflight.Group
}

// NewRedisCache wraps an existing go-redis client. keyPrefix namespaces
// keys (e.g. "evalforge:cache:") to share a Redis instance safely with
// other applications; ttl of 0 means entries never expire.
func NewRedisCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, prefix: keyPrefix, ttl: ttl}
}

func (c *RedisCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*provider.Response, error)) (*provider.Response, bool, error) {
	redisKey := c.prefix + key

	if resp, ok, err := c.get(ctx, redisKey); err != nil {
		return nil, false, err
	} else if ok {
		return resp, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if resp, ok, err := c.get(ctx, redisKey); err == nil && ok {
			return resp, nil
		}
		resp, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if setErr := c.set(ctx, redisKey, resp); setErr != nil {
			return resp, nil // cache write failure shouldn't fail the evaluation
		}
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*provider.Response), false, nil
}

func (c *RedisCache) get(ctx context.Context, key string) (*provider.Response, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var resp provider.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, nil // treat a corrupted entry as a miss, not a fatal error
	}
	return &resp, true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, resp *provider.Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
