package eval

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/evalforge/evalforge/pkg/assert"
	"github.com/evalforge/evalforge/pkg/cache"
	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/stretchr/testify/require"
)

func TestRunnerRendersPromptAndGrades(t *testing.T) {
	rn := NewRunner()
	rn.Cache = cache.NewMemoryCache()

	p := provider.NewStub("echo", func(ctx context.Context, prompt string, callCtx provider.CallContext) (*provider.Response, error) {
		return &provider.Response{Output: "Paris is the capital of France"}, nil
	})

	item := WorkItem{
		Provider: p,
		Prompt:   Prompt{Raw: "What is the capital of {{country}}?"},
		Test: AtomicTestCase{
			Vars: map[string]any{"country": "France"},
			Assertions: []assert.Assertion{
				{Kind: assert.KindContains, Value: "Paris"},
			},
		},
	}

	res := rn.Run(context.Background(), item)
	require.NoError(t, res.Error)
	if res.RenderedPrompt != "What is the capital of France?" {
		t.Fatalf("unexpected rendered prompt: %q", res.RenderedPrompt)
	}
	if !res.Grading.Pass {
		t.Fatalf("expected grading to pass, reason: %s", res.Grading.Reason)
	}
}

func TestRunnerCachesRepeatedCalls(t *testing.T) {
	rn := NewRunner()
	rn.Cache = cache.NewMemoryCache()
	calls := int32(0)

	p := provider.NewStub("echo", func(ctx context.Context, prompt string, callCtx provider.CallContext) (*provider.Response, error) {
		atomic.AddInt32(&calls, 1)
		return &provider.Response{Output: "same every time"}, nil
	})

	item := WorkItem{
		Provider: p,
		Prompt:   Prompt{Raw: "hello"},
		Test:     AtomicTestCase{Assertions: []assert.Assertion{{Kind: assert.KindContains, Value: "same"}}},
	}

	res1 := rn.Run(context.Background(), item)
	res2 := rn.Run(context.Background(), item)

	require.NoError(t, res1.Error)
	require.NoError(t, res2.Error)
	if res1.CacheHit {
		t.Fatal("first call should not be a cache hit")
	}
	if !res2.CacheHit {
		t.Fatal("second identical call should be a cache hit")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected provider called once, got %d", calls)
	}
}

func TestRunnerRepeatBypassesCache(t *testing.T) {
	rn := NewRunner()
	rn.Cache = cache.NewMemoryCache()
	calls := int32(0)

	p := provider.NewStub("echo", func(ctx context.Context, prompt string, callCtx provider.CallContext) (*provider.Response, error) {
		atomic.AddInt32(&calls, 1)
		return &provider.Response{Output: "x"}, nil
	})

	item := WorkItem{
		Provider: p,
		Prompt:   Prompt{Raw: "hello"},
		Test:     AtomicTestCase{Repeat: 3, Assertions: []assert.Assertion{{Kind: assert.KindEquals, Value: "x"}}},
	}

	rn.Run(context.Background(), item)
	rn.Run(context.Background(), item)

	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected each repeat call to bypass the cache, got %d calls", calls)
	}
}

func TestRunnerRetriesRetryableErrors(t *testing.T) {
	rn := NewRunner()
	rn.MaxRetries = 2
	attempts := int32(0)

	p := provider.NewStub("flaky", func(ctx context.Context, prompt string, callCtx provider.CallContext) (*provider.Response, error) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			return &provider.Response{Retryable: true}, errors.New("transient failure")
		}
		return &provider.Response{Output: "finally"}, nil
	})

	item := WorkItem{
		Provider: p,
		Prompt:   Prompt{Raw: "hi"},
		Test:     AtomicTestCase{Assertions: []assert.Assertion{{Kind: assert.KindEquals, Value: "finally"}}},
	}

	res := rn.Run(context.Background(), item)
	require.NoError(t, res.Error)
	if atomic.LoadInt32(&attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRunnerDoesNotRetryNonRetryableErrors(t *testing.T) {
	rn := NewRunner()
	rn.MaxRetries = 5
	attempts := int32(0)

	p := provider.NewStub("broken", func(ctx context.Context, prompt string, callCtx provider.CallContext) (*provider.Response, error) {
		atomic.AddInt32(&attempts, 1)
		return &provider.Response{Retryable: false}, errors.New("permanent failure")
	})

	item := WorkItem{
		Provider: p,
		Prompt:   Prompt{Raw: "hi"},
		Test:     AtomicTestCase{},
	}

	res := rn.Run(context.Background(), item)
	require.Error(t, res.Error)
	if atomic.LoadInt32(&attempts) != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable error, got %d", attempts)
	}
}
