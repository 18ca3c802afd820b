package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheMissThenHit(t *testing.T) {
	c := NewMemoryCache()
	calls := int32(0)
	compute := func(ctx context.Context) (*provider.Response, error) {
		atomic.AddInt32(&calls, 1)
		return &provider.Response{Output: "computed"}, nil
	}

	resp, hit, err := c.GetOrCompute(context.Background(), "k1", compute)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "computed", resp.Output)

	resp2, hit2, err := c.GetOrCompute(context.Background(), "k1", compute)
	require.NoError(t, err)
	assert.True(t, hit2)
	assert.Equal(t, "computed", resp2.Output)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemoryCacheSingleFlight(t *testing.T) {
	c := NewMemoryCache()
	calls := int32(0)
	start := make(chan struct{})
	compute := func(ctx context.Context) (*provider.Response, error) {
		<-start
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return &provider.Response{Output: "computed"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.GetOrCompute(context.Background(), "shared-key", compute)
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCachePropagatesComputeError(t *testing.T) {
	c := NewMemoryCache()
	wantErr := assert.AnError
	_, _, err := c.GetOrCompute(context.Background(), "k", func(ctx context.Context) (*provider.Response, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, c.Len())
}

func TestNoopCacheNeverHits(t *testing.T) {
	c := NoopCache{}
	calls := 0
	compute := func(ctx context.Context) (*provider.Response, error) {
		calls++
		return &provider.Response{Output: "x"}, nil
	}
	_, hit1, _ := c.GetOrCompute(context.Background(), "k", compute)
	_, hit2, _ := c.GetOrCompute(context.Background(), "k", compute)
	assert.False(t, hit1)
	assert.False(t, hit2)
	assert.Equal(t, 2, calls)
}
