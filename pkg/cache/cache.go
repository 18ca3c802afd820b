// Package cache implements the evaluation engine's response cache (C7):
// content-addressed keys over (provider, rendered prompt, vars, options),
// with an in-memory backend and an optional Redis-backed one, both
// allowing at most one in-flight computation per key within one process
// via golang.org/x/sync/singleflight (the Redis backend does not
// coordinate computations across processes), plus a NoopCache that
// computes on every call.
package cache

import (
	"context"

	"github.com/evalforge/evalforge/pkg/provider"
)

// Cache is the engine's response cache contract (§4.7). MemoryCache and
// RedisCache run at most one compute per key at a time within a process,
// even under concurrent callers racing for the same key; NoopCache runs
// compute on every call.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*provider.Response, error)) (resp *provider.Response, hit bool, err error)
}
