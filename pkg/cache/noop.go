package cache

import (
	"context"

	"github.com/evalforge/evalforge/pkg/provider"
)

// NoopCache disables caching entirely: every call computes. Selected
// when EvaluateOptions.CacheEnabled is false.
type NoopCache struct{}

func (NoopCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*provider.Response, error)) (*provider.Response, bool, error) {
	resp, err := compute(ctx)
	return resp, false, err
}
