package assert

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/evalforge/evalforge/pkg/render"
)

// Sentinel errors, matching the ConfigError/AssertionError taxonomy of §7.
var (
	ErrUnknownAssertionKind  = errors.New("unknown assertion kind")
	ErrMissingAssertionValue = errors.New("missing assertion value")
)

// HandlerFunc scores one leaf assertion. It receives an Assertion whose
// Value/Metric have already been template-rendered against test vars. A
// non-nil error is treated as an AssertionError: the Registry converts it
// to a failing GradingResult and evaluation continues (§7).
type HandlerFunc func(ctx context.Context, a Assertion, ectx EvalContext) (pass bool, score float64, reason string, err error)

// handlerEntry pairs a handler with whether its score is continuous
// (rouge-n, similar, tool-call-f1, webhook, llm-rubric, javascript,
// python — the script kinds regardless of the shape of the script's
// result) or binary (everything else). This distinction drives
// how `not-` inversion treats the score (§9): binary scores flip with the
// pass bit; continuous scores keep their raw value and only the pass bit
// flips, generalizing the spec's explicit rule for `similar`.
type handlerEntry struct {
	fn         HandlerFunc
	continuous bool
}

// Registry is the dispatch table mapping assertion kinds to handlers
// (C1). It is built once via NewRegistry and is safe for concurrent use
// thereafter — Dispatch never mutates the Registry.
type Registry struct {
	handlers map[Kind]handlerEntry
}

// NewRegistry builds a Registry with every built-in assertion kind
// registered. Additional or replacement handlers can be added afterward
// with Register, before the Registry is shared across goroutines.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[Kind]handlerEntry)}
	registerStringHandlers(r)
	registerJSONHandlers(r)
	registerHTMLHandlers(r)
	registerSimilarHandler(r)
	registerRougeHandler(r)
	registerWebhookHandler(r)
	registerRubricHandler(r)
	registerScriptHandlers(r)
	registerToolCallHandler(r)
	return r
}

// Register installs (or replaces) the handler for kind.
func (r *Registry) Register(kind Kind, continuous bool, fn HandlerFunc) {
	r.handlers[kind] = handlerEntry{fn: fn, continuous: continuous}
}

// Dispatch evaluates one Assertion node — leaf or combinator — against
// ectx, recursing into Children for combinators (C3) and into the
// registered handler for leaves (C1/C2).
func (r *Registry) Dispatch(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	if a.IsCombinator() {
		return r.evalCombinator(ctx, a, ectx)
	}
	return r.dispatchLeaf(ctx, a, ectx)
}

func (r *Registry) dispatchLeaf(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	rendered := renderAssertionValue(a, ectx.Vars)
	metricName := render.String(rendered.Metric, ectx.Vars)

	// Invariant 3: weight:0 always passes, trivially, never invoking the
	// handler (and therefore never consuming a suspension point either).
	if rendered.WeightOrDefault() == 0 {
		result := GradingResult{
			Pass:      true,
			Score:     1,
			Reason:    "Weight is 0, assertion skipped",
			Assertion: &rendered,
			Metadata:  map[string]any{"skipped": true},
		}
		return result.withNamedScore(metricName, result.Score)
	}

	entry, ok := r.handlers[rendered.BaseKind()]
	if !ok {
		result := GradingResult{
			Pass:      false,
			Score:     0,
			Reason:    fmt.Sprintf("Unknown assertion type: %s", rendered.Kind),
			Assertion: &rendered,
		}
		return result.withNamedScore(metricName, result.Score)
	}

	pass, score, reason, err := entry.fn(ctx, rendered, ectx)
	if err != nil {
		result := GradingResult{
			Pass:      false,
			Score:     0,
			Reason:    err.Error(),
			Assertion: &rendered,
		}
		return result.withNamedScore(metricName, result.Score)
	}

	if rendered.Inverse() {
		pass = !pass
		if !entry.continuous {
			score = 1 - score
		}
	}

	result := GradingResult{
		Pass:      pass,
		Score:     score,
		Reason:    reason,
		Assertion: &rendered,
	}
	return result.withNamedScore(metricName, score)
}

// renderAssertionValue returns a copy of a with string/list Value entries
// and Metric substituted against vars (§4.1's "renderedValue").
func renderAssertionValue(a Assertion, vars map[string]any) Assertion {
	out := a
	switch v := a.Value.(type) {
	case string:
		out.Value = render.String(v, vars)
	case []string:
		rendered := make([]string, len(v))
		for i, s := range v {
			rendered[i] = render.String(s, vars)
		}
		out.Value = rendered
	case []any:
		rendered := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				rendered = append(rendered, render.String(s, vars))
			}
		}
		out.Value = rendered
	}
	return out
}

// Parse converts a shorthand assertion string into a structured Assertion,
// per the grammar in §6.1:
//
//	assertion := kind ["(" threshold ")"] [":" value] | "fn:" expr | bare_string
func Parse(shorthand string) (Assertion, error) {
	if strings.HasPrefix(shorthand, "fn:") {
		return Assertion{Kind: KindJavaScript, Value: strings.TrimPrefix(shorthand, "fn:")}, nil
	}

	if kind, threshold, value, ok := parseStructured(shorthand); ok {
		a := Assertion{Kind: kind}
		if threshold != nil {
			a.Threshold = threshold
		}
		if kind == KindContainsAny || kind == KindContainsAll {
			a.Value = splitList(value)
		} else {
			a.Value = value
		}
		return a, nil
	}

	return Assertion{Kind: KindEquals, Value: shorthand}, nil
}

// parseStructured attempts the "kind[(threshold)][:value]" form; with no
// colon the value is empty. It only succeeds when the parsed kind is a
// member of the closed set — anything else (e.g. a bare sentence
// containing a colon) falls through to the bare-string (implied equals)
// case.
func parseStructured(s string) (kind Kind, threshold *float64, value string, ok bool) {
	head := s
	if colon := strings.IndexByte(s, ':'); colon >= 0 {
		head = s[:colon]
		value = s[colon+1:]
	}

	kindPart := head
	if paren := strings.IndexByte(head, '('); paren >= 0 && strings.HasSuffix(head, ")") {
		kindPart = head[:paren]
		thresholdStr := head[paren+1 : len(head)-1]
		t, err := strconv.ParseFloat(thresholdStr, 64)
		if err != nil {
			return "", nil, "", false
		}
		threshold = &t
	}

	k := Kind(kindPart)
	if !isKnownKind(k) {
		return "", nil, "", false
	}
	return k, threshold, value, true
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

var knownKinds = map[Kind]bool{
	KindEquals: true, KindContains: true, KindIContains: true,
	KindNotContains: true, KindNotIContains: true,
	KindContainsAny: true, KindContainsAll: true,
	KindRegex: true, KindNotRegex: true, KindStartsWith: true,
	KindIsJSON: true, KindContainsJSON: true,
	KindIsHTML: true, KindContainsHTML: true,
	KindNotIsHTML: true, KindNotContainsHTML: true,
	KindSimilar: true, KindRougeN: true, KindNotRougeN: true,
	KindWebhook: true, KindNotWebhook: true,
	KindLLMRubric: true, KindJavaScript: true, KindPython: true,
	KindToolCallF1: true, KindNotToolCallF1: true,
	KindAnd: true, KindOr: true, KindAssertSet: true,
}

func isKnownKind(k Kind) bool { return knownKinds[k] }
