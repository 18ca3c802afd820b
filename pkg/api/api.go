// Package api implements the optional HTTP/WebSocket front door (A5): it
// starts eval runs, streams progress, and exposes a health endpoint. It is
// a concrete, disposable consumer of the engine — pkg/eval, pkg/scheduler,
// and pkg/progress are fully usable as a library without it, and this
// package never imports anything outside of those plus pkg/cache,
// pkg/config, pkg/provider and pkg/version.
package api

import (
	"sync"

	"github.com/evalforge/evalforge/pkg/eval"
	"github.com/evalforge/evalforge/pkg/progress"
)

// RunStatus is the lifecycle state of one started eval run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusError     RunStatus = "error"
)

// Run is one started evaluation: its suite, live progress, and (once
// finished) results.
type Run struct {
	ID       string
	Suite    eval.EvalSuite
	Progress *progress.Machine

	mu      sync.RWMutex
	status  RunStatus
	results []eval.TestResult
	err     error
}

func newRun(id string, suite eval.EvalSuite) *Run {
	return &Run{ID: id, Suite: suite, Progress: progress.New(), status: RunStatusRunning}
}

// Status returns the run's current lifecycle state.
func (r *Run) Status() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// Results returns a copy of the run's results once completed (nil while
// still running).
func (r *Run) Results() []eval.TestResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.results == nil {
		return nil
	}
	out := make([]eval.TestResult, len(r.results))
	copy(out, r.results)
	return out
}

// Err returns the run's fatal error, if any.
func (r *Run) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func (r *Run) finish(results []eval.TestResult, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = results
	r.err = err
	if err != nil {
		r.status = RunStatusError
	} else {
		r.status = RunStatusCompleted
	}
}
