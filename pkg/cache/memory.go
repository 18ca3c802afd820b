package cache

import (
	"context"
	"sync"

	"github.com/evalforge/evalforge/pkg/provider"
	"golang.org/x/sync/singleflight"
)

// MemoryCache is the default, process-scoped Cache backend. It never
// persists across process restarts — the spec's Non-goals exclude
// persisting a database schema, and a process-local cache is the
// simplest implementation that satisfies the at-most-one-in-flight
// guarantee without a network round trip.
type MemoryCache struct {
	mu    sync.RWMutex
	data  map[string]*provider.Response
	group singleflight.Group
}

// NewMemoryCache creates an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string]*provider.Response)}
}

func (c *MemoryCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*provider.Response, error)) (*provider.Response, bool, error) {
	c.mu.RLock()
	if v, ok := c.data[key]; ok {
		c.mu.RUnlock()
		return v, true, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		if v, ok := c.data[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		resp, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.data[key] = resp
		c.mu.Unlock()
		return resp, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.(*provider.Response), false, nil
}

// Len reports the number of cached entries, used by tests.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
