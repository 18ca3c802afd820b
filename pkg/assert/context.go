package assert

import (
	"context"

	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/evalforge/evalforge/pkg/script"
)

// EvalContext bundles everything a handler may need, per §4.1's dispatch
// contract: (output, outputString, vars, providerResponse, prompt,
// provider, renderedValue, inverse). renderedValue/inverse are derived by
// the Registry just before dispatch and threaded through on the
// Assertion/Dispatch call itself rather than duplicated here.
type EvalContext struct {
	Output   any
	Vars     map[string]any
	Response *provider.Response
	Prompt   string
	Provider string

	// Script runs javascript/python assertion bodies. Required only for
	// those two kinds; dispatching them with a nil Script makes the
	// handler return an error, which the Registry turns into a failing
	// GradingResult.
	Script script.Runner

	// Embedder computes text embeddings for the `similar` assertion.
	Embedder Embedder

	// Grader is the sub-Provider used by llm-rubric (and, by the same
	// mechanism, similar/moderation in a fuller build) to obtain a
	// structured {pass, score, reason} judgement.
	Grader provider.Provider

	// HTTPDo performs the webhook POST. Abstracted for testability;
	// production callers pass http.DefaultClient.Do.
	HTTPDo func(ctx context.Context, url string, body []byte, headers map[string]string) (status int, respBody []byte, err error)
}

// OutputString returns the §4.2 "objects JSON-serialized" string form of
// Output.
func (c EvalContext) OutputString() string {
	return provider.Response{Output: c.Output}.OutputString()
}

// Embedder computes a vector embedding for text, used by the `similar`
// assertion's cosine-similarity scoring. This is the grading
// sub-provider's embedding capability — itself a Provider-adjacent
// external collaborator, never implemented by the core.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}
