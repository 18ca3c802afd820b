// Package script declares the capability the core's `javascript`/`python`
// assertion handlers require from their host: a sandboxed or out-of-process
// interpreter. Per the spec's design notes, this is an interface the core
// depends on — no reflection or runtime code-loading happens inside the
// core itself; a host embedding the engine supplies the implementation
// (e.g. a goja VM, a subprocess pool, a gRPC sidecar).
package script

import "context"

// RunContext is the second positional argument passed to a script body:
// {prompt, test, vars, provider, providerResponse, config} (§4.2).
type RunContext struct {
	Prompt            string
	Test              map[string]any
	Vars              map[string]any
	Provider          string
	ProviderResponse  any
	Config            map[string]any
}

// Result is the coerced outcome of a script body invocation. Exactly one
// of Bool, Number, Object is populated, matching the three return shapes
// §4.2 specifies: bool → (pass, 1/0); number → (score≥threshold?, number);
// object → a verbatim GradingResult-shaped map (using camelCase keys —
// Runner implementations are responsible for converting a Python body's
// snake_case keys, e.g. `pass_`/`named_scores`/`tokens_used`/
// `component_results`, to camelCase before returning).
type Result struct {
	Bool   *bool
	Number *float64
	Object map[string]any
}

// Runner executes inline or file-referenced javascript/python assertion
// bodies. Implementations must not mutate the ProviderResponse value
// reachable through RunContext.
type Runner interface {
	// RunJavaScript evaluates body (an inline expression, e.g. from
	// `fn:output === 'x'`, or a `file://path[:func]` reference) against
	// output and rctx.
	RunJavaScript(ctx context.Context, body string, output any, rctx RunContext) (Result, error)

	// RunPython evaluates a Python assertion body. Default function name
	// is `get_assert` for file references and `main` for inline bodies
	// when body does not specify one.
	RunPython(ctx context.Context, body string, output any, rctx RunContext) (Result, error)
}
