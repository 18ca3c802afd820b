// Package eval holds the evaluation engine's data model — EvalSuite,
// Prompt, AtomicTestCase, ProviderConfig — and the Test Runner (C5) that
// executes one work item end to end: render, cache lookup, provider
// call, assertion dispatch, result assembly.
package eval

import (
	"github.com/evalforge/evalforge/pkg/assert"
	"github.com/evalforge/evalforge/pkg/provider"
)

// Prompt is a named, possibly multi-variant prompt template (§3).
type Prompt struct {
	ID       string
	Raw      string
	Label    string
	Metadata map[string]any
}

// ProviderConfig names a Provider implementation and its call-time
// options (§3). Concrete Provider construction from a ProviderConfig is
// a host concern (cmd/evalforge, or a pkg/api ProviderFactory) — the engine only needs
// the provider.Provider value at Scheduler construction time.
type ProviderConfig struct {
	ID      string
	Type    string
	Options map[string]any
	Label   string
}

// AtomicTestCase is one test case: input variables, the assertions to
// run against the provider's output, and optional per-test overrides
// (§3).
type AtomicTestCase struct {
	Description string
	Vars        map[string]any
	Assertions  []assert.Assertion
	Options     map[string]any

	// Repeat re-runs this test N times against the same provider/prompt,
	// bypassing the cache each time (§5).
	Repeat int
}

// EvaluateOptions governs how the Scheduler fans work out (§5).
type EvaluateOptions struct {
	MaxConcurrency int
	DelayMs        int
	CacheEnabled   bool
	Timeout        int // per-call timeout in milliseconds; 0 = no timeout
	MaxRetries     int
}

// EvalSuite is the complete, resolved unit of work: the cartesian
// product of Providers × Prompts × Tests (§3).
type EvalSuite struct {
	Providers []ProviderConfig
	Prompts   []Prompt
	Tests     []AtomicTestCase
	Options   EvaluateOptions
}

// WorkItem is one (provider, prompt, test, repeat) cell of the cartesian
// product, carrying its position for deterministic output ordering (§5).
type WorkItem struct {
	ProviderIndex int
	PromptIndex   int
	TestIndex     int
	RepeatIndex   int

	Provider provider.Provider
	Prompt   Prompt
	Test     AtomicTestCase
}

// TestResult is the outcome of running one WorkItem through the
// pipeline: render → cache → call → grade (§4.5).
type TestResult struct {
	WorkItem       WorkItem
	RenderedPrompt string
	Response       *provider.Response
	Grading        assert.GradingResult
	CacheHit       bool
	Error          error
	LatencyMs      float64
}
