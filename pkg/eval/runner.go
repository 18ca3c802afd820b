package eval

import (
	"context"
	"errors"
	"time"

	"github.com/evalforge/evalforge/pkg/assert"
	"github.com/evalforge/evalforge/pkg/cache"
	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/evalforge/evalforge/pkg/render"
	"github.com/evalforge/evalforge/pkg/script"
)

// Runner executes one WorkItem end to end (C5): render the prompt,
// consult the cache, call the provider with timeout and retry, dispatch
// assertions, and assemble the aggregate GradingResult.
type Runner struct {
	Registry *assert.Registry
	Cache    cache.Cache

	Script   script.Runner
	Embedder assert.Embedder
	Grader   provider.Provider
	HTTPDo   func(ctx context.Context, url string, body []byte, headers map[string]string) (status int, respBody []byte, err error)

	MaxRetries int
	Timeout    time.Duration
}

// NewRunner builds a Runner with the default assertion registry and no
// caching (NoopCache), suitable as a starting point the caller
// customizes.
func NewRunner() *Runner {
	return &Runner{
		Registry: assert.NewRegistry(),
		Cache:    cache.NoopCache{},
	}
}

// Run executes item, returning a TestResult that never itself panics or
// aborts the containing evaluation — provider and assertion errors are
// captured on the result for the Scheduler to surface (§7).
func (rn *Runner) Run(ctx context.Context, item WorkItem) TestResult {
	rendered := render.String(item.Prompt.Raw, item.Test.Vars)

	compute := rn.computeFn(item, rendered)

	start := time.Now()
	var (
		resp *provider.Response
		hit  bool
		err  error
	)
	if item.Test.Repeat > 1 {
		// Repeats intentionally bypass the cache: the whole point of
		// repeating a test is to sample fresh provider calls (§5).
		resp, err = compute(ctx)
	} else {
		key := cache.Key(item.Provider.ID(), rendered, item.Test.Vars, item.Test.Options)
		resp, hit, err = rn.Cache.GetOrCompute(ctx, key, compute)
	}
	latency := float64(time.Since(start).Milliseconds())

	if err != nil {
		return TestResult{
			WorkItem:       item,
			RenderedPrompt: rendered,
			Error:          err,
			LatencyMs:      latency,
		}
	}

	grading := rn.grade(ctx, item, rendered, resp)

	return TestResult{
		WorkItem:       item,
		RenderedPrompt: rendered,
		Response:       resp,
		Grading:        grading,
		CacheHit:       hit,
		LatencyMs:      latency,
	}
}

// computeFn returns the provider-call closure, wrapped with the per-call
// timeout and retry policy (§5): retries only fire for calls the
// provider marked Retryable, and each attempt gets a fresh timeout.
func (rn *Runner) computeFn(item WorkItem, rendered string) func(ctx context.Context) (*provider.Response, error) {
	return func(ctx context.Context) (*provider.Response, error) {
		callCtx := provider.CallContext{
			Vars: item.Test.Vars,
			Test: provider.TestCaseRef{
				Description: item.Test.Description,
				Metadata:    item.Test.Vars,
				Options:     item.Test.Options,
			},
		}

		attempts := rn.MaxRetries + 1
		if attempts < 1 {
			attempts = 1
		}

		var lastErr error
		for attempt := 0; attempt < attempts; attempt++ {
			callCtx2, cancel := rn.withTimeout(ctx)
			resp, err := item.Provider.Call(callCtx2, rendered, callCtx)
			cancel()

			if err == nil && (resp == nil || resp.Error == "") {
				return resp, nil
			}
			if err == nil {
				// A backend-reported failure: no assertions run on it.
				err = errors.New(resp.Error)
			}
			lastErr = err
			if resp == nil || !resp.Retryable {
				return nil, err
			}
		}
		return nil, lastErr
	}
}

func (rn *Runner) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if rn.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, rn.Timeout)
}

// grade builds the EvalContext and dispatches the test's assertions as
// an implicit `and` (§4.5): the test passes iff the weighted-average
// assertion score clears the test's own threshold, default 1.0.
func (rn *Runner) grade(ctx context.Context, item WorkItem, rendered string, resp *provider.Response) assert.GradingResult {
	ectx := assert.EvalContext{
		Output:   resp.Output,
		Vars:     item.Test.Vars,
		Response: resp,
		Prompt:   rendered,
		Provider: item.Provider.ID(),
		Script:   rn.Script,
		Embedder: rn.Embedder,
		Grader:   rn.Grader,
		HTTPDo:   rn.HTTPDo,
	}

	root := assert.Assertion{
		Kind:     assert.KindAnd,
		Children: item.Test.Assertions,
	}
	if threshold, ok := item.Test.Options["threshold"].(float64); ok {
		root.Threshold = &threshold
	}

	return rn.Registry.Dispatch(ctx, root, ectx)
}
