package provider

import (
	"context"
	"time"
)

// Stub is a trivial in-process Provider used by the engine's own tests and
// as a CLI example — it is not a faithful reproduction of any vendor's
// wire protocol. Func is called with the rendered prompt and returns the
// output to report.
type Stub struct {
	id   string
	Func func(ctx context.Context, renderedPrompt string, callCtx CallContext) (*Response, error)
}

// NewStub creates a Stub provider identified by id.
func NewStub(id string, fn func(ctx context.Context, renderedPrompt string, callCtx CallContext) (*Response, error)) *Stub {
	return &Stub{id: id, Func: fn}
}

// NewEchoStub returns a Stub that simply echoes the rendered prompt back
// as output, useful for exercising the pipeline end-to-end without a real
// backend.
func NewEchoStub(id string) *Stub {
	return NewStub(id, func(_ context.Context, prompt string, _ CallContext) (*Response, error) {
		return &Response{
			Output:     prompt,
			TokenUsage: TokenUsage{Prompt: len(prompt) / 4, Completion: len(prompt) / 4, Total: len(prompt) / 2, NumRequests: 1},
			LatencyMs:  0,
		}, nil
	})
}

func (s *Stub) ID() string { return s.id }

func (s *Stub) Call(ctx context.Context, renderedPrompt string, callCtx CallContext) (*Response, error) {
	start := time.Now()
	resp, err := s.Func(ctx, renderedPrompt, callCtx)
	if resp != nil && resp.LatencyMs == 0 {
		resp.LatencyMs = float64(time.Since(start).Milliseconds())
	}
	return resp, err
}
