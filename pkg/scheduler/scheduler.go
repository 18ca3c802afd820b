// Package scheduler implements the bounded-concurrency work dispatcher
// (C6): it expands an EvalSuite into its Providers × Prompts × Tests ×
// Repeats cartesian product and runs every cell through a Runner, honoring
// MaxConcurrency, an optional inter-call delay, and cooperative
// cancellation.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/evalforge/evalforge/pkg/eval"
	"github.com/evalforge/evalforge/pkg/provider"
	"golang.org/x/time/rate"
)

// Scheduler drives one EvalSuite through a Runner (§5/§4.6).
type Scheduler struct {
	runner *eval.Runner

	mu       sync.Mutex
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScheduler builds a Scheduler around runner. runner is reused across
// every work item — it is expected to be safe for concurrent use (the
// Registry is read-only after construction; the Cache guarantees
// single-flight internally).
func NewScheduler(runner *eval.Runner) *Scheduler {
	return &Scheduler{runner: runner, stopCh: make(chan struct{})}
}

// Cancel stops the Scheduler before it has processed every work item;
// already-dispatched items still run to completion, but no new ones are
// started (§5's cooperative cancellation).
func (s *Scheduler) Cancel() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Run expands suite into work items and executes them with bounded
// concurrency, invoking onResult as each completes (for streaming
// progress, §4.8) and returning every result ordered deterministically
// by (providerIndex, promptIndex, testIndex, repeatIndex) regardless of
// completion order.
func (s *Scheduler) Run(ctx context.Context, suite eval.EvalSuite, providers []provider.Provider, onResult func(eval.TestResult)) []eval.TestResult {
	items := expand(suite, providers)

	concurrency := suite.Options.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	if suite.Options.DelayMs > 0 {
		// A positive inter-call delay only makes sense against a single
		// in-flight call at a time; otherwise N workers would each wait
		// independently and the delay wouldn't throttle anything.
		concurrency = 1
	}

	var limiter *rate.Limiter
	if suite.Options.DelayMs > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Duration(suite.Options.DelayMs)*time.Millisecond), 1)
	}

	itemsCh := make(chan eval.WorkItem)
	resultsCh := make(chan eval.TestResult)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID, itemsCh, resultsCh, limiter)
		}(i)
	}

	go func() {
		defer close(itemsCh)
		for _, item := range items {
			select {
			case itemsCh <- item:
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	results := make([]eval.TestResult, 0, len(items))
	for res := range resultsCh {
		if onResult != nil {
			onResult(res)
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		return lessByPosition(results[i].WorkItem, results[j].WorkItem)
	})
	return results
}

func (s *Scheduler) worker(ctx context.Context, workerID int, items <-chan eval.WorkItem, results chan<- eval.TestResult, limiter *rate.Limiter) {
	logger := slog.With("component", "scheduler", "worker_id", workerID)
	for {
		select {
		case item, ok := <-items:
			if !ok {
				return
			}
			select {
			case <-s.stopCh:
				return
			default:
			}
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
			}
			logger.Debug("running work item",
				"provider_index", item.ProviderIndex, "prompt_index", item.PromptIndex,
				"test_index", item.TestIndex, "repeat_index", item.RepeatIndex)
			res := s.runner.Run(ctx, item)
			select {
			case results <- res:
			case <-ctx.Done():
				return
			}
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

// expand builds the full cartesian product of providers × prompts ×
// tests, further expanding any test with Repeat > 1 into that many work
// items (§5).
func expand(suite eval.EvalSuite, providers []provider.Provider) []eval.WorkItem {
	var items []eval.WorkItem
	for pi, prov := range providers {
		for qi, prompt := range suite.Prompts {
			for ti, test := range suite.Tests {
				repeats := test.Repeat
				if repeats < 1 {
					repeats = 1
				}
				for ri := 0; ri < repeats; ri++ {
					items = append(items, eval.WorkItem{
						ProviderIndex: pi,
						PromptIndex:   qi,
						TestIndex:     ti,
						RepeatIndex:   ri,
						Provider:      prov,
						Prompt:        prompt,
						Test:          test,
					})
				}
			}
		}
	}
	return items
}

func lessByPosition(a, b eval.WorkItem) bool {
	if a.ProviderIndex != b.ProviderIndex {
		return a.ProviderIndex < b.ProviderIndex
	}
	if a.PromptIndex != b.PromptIndex {
		return a.PromptIndex < b.PromptIndex
	}
	if a.TestIndex != b.TestIndex {
		return a.TestIndex < b.TestIndex
	}
	return a.RepeatIndex < b.RepeatIndex
}
