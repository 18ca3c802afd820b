// Package provider defines the opaque contract the evaluation engine uses
// to reach a language-model (or grading) backend. The engine never knows
// or cares which concrete provider it is talking to — OpenAI, Anthropic,
// Bedrock, HuggingFace, an exec() wrapper, a Python bridge, or (as here) an
// in-process stub. Concrete vendor SDKs are intentionally out of scope;
// this package only carries the boundary and two illustrative adapters
// used by the engine's own tests and CLI.
package provider

import (
	"context"
	"time"
)

// Provider is the contract every concrete backend implements. Call must be
// safe for concurrent use: the Scheduler invokes it from many worker
// goroutines at once.
type Provider interface {
	// ID identifies this provider instance for cache keys and reporting.
	ID() string

	// Call renders the given prompt against vars (already rendered by the
	// caller — Call receives the final prompt text) and returns a
	// Response. A non-nil error indicates a transport-level failure (the
	// call never reached the backend); a populated Response.Error
	// indicates the backend itself reported a failure.
	Call(ctx context.Context, renderedPrompt string, callCtx CallContext) (*Response, error)
}

// CallContext carries the per-call context a Provider may need beyond the
// rendered prompt text: the test-case variables (for providers that build
// structured chat messages instead of a flat string) and grading
// defaults the provider should merge into its response.
type CallContext struct {
	Vars               map[string]any
	Test               TestCaseRef
	ResponseDefaults   *Response
}

// TestCaseRef is the minimal view of an AtomicTestCase a Provider needs;
// kept separate from eval.AtomicTestCase to avoid an import cycle between
// pkg/eval and pkg/provider.
type TestCaseRef struct {
	Description string
	Metadata    map[string]any
	Options     map[string]any
}

// Response is the Go-native ProviderResponse of the data model (§3).
type Response struct {
	// Output is the provider's output: a string or any structured
	// (JSON-marshalable) value. Assertion handlers that need a string
	// call OutputString().
	Output any

	// Error, when non-empty, marks a backend-reported failure: the
	// request reached the provider but the provider itself failed
	// (e.g. policy refusal, invalid request). The engine runs no
	// assertions in this case.
	Error string

	// Retryable marks an Error as transient (network blip, HTTP 5xx,
	// rate limit) versus permanent (bad request, auth, quota). Only
	// transient errors are retried by the Test Runner (§4.5).
	Retryable bool

	TokenUsage TokenUsage
	Cost       float64
	LatencyMs  float64
	Metadata   map[string]any
}

// TokenUsage mirrors the data model's token-usage record. All fields are
// non-negative; Total is not required to equal Prompt+Completion (some
// providers report Total independently), but callers that aggregate
// across calls always sum field-by-field (§3 Invariant 5 / §8 property 2).
type TokenUsage struct {
	Prompt      int
	Completion  int
	Cached      int
	Total       int
	NumRequests int
	Reasoning   int
}

// Add accumulates other into u, field by field.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Prompt += other.Prompt
	u.Completion += other.Completion
	u.Cached += other.Cached
	u.Total += other.Total
	u.NumRequests += other.NumRequests
	u.Reasoning += other.Reasoning
}

// OutputString coerces Response.Output to a string the way every
// string-oriented assertion handler expects: strings pass through,
// everything else is JSON-marshaled. Marshal failure yields fmt's verbose
// representation rather than an error — assertion handlers must never
// fail to obtain *some* string to compare against.
func (r *Response) OutputString() string {
	return outputString(r.Output)
}

// DefaultTimeout is the per-call timeout for a context built without an
// explicit timeoutMs; nothing in this module reads it (§6.3 defaults to 0 = no bound at the
// Provider layer; the Test Runner applies its own timeout regardless).
const DefaultTimeout = 0 * time.Second
