// Package assert implements the assertion runtime (§4.1–§4.4 of the
// evaluation engine spec): a registry of ~30 assertion kinds, the
// structural combinators `and`/`or`/`assert-set`, and the metric-name
// template renderer.
package assert

import (
	"strings"

	"github.com/evalforge/evalforge/pkg/provider"
)

// Kind identifies an assertion kind from the closed set in §6.2.
type Kind string

// The closed set of assertion kinds.
const (
	KindEquals        Kind = "equals"
	KindContains       Kind = "contains"
	KindIContains      Kind = "icontains"
	KindNotContains    Kind = "not-contains"
	KindNotIContains   Kind = "not-icontains"
	KindContainsAny    Kind = "contains-any"
	KindContainsAll    Kind = "contains-all"
	KindRegex          Kind = "regex"
	KindNotRegex       Kind = "not-regex"
	KindStartsWith     Kind = "starts-with"
	KindIsJSON         Kind = "is-json"
	KindContainsJSON   Kind = "contains-json"
	KindIsHTML         Kind = "is-html"
	KindContainsHTML   Kind = "contains-html"
	KindNotIsHTML      Kind = "not-is-html"
	KindNotContainsHTML Kind = "not-contains-html"
	KindSimilar        Kind = "similar"
	KindRougeN         Kind = "rouge-n"
	KindNotRougeN      Kind = "not-rouge-n"
	KindWebhook        Kind = "webhook"
	KindNotWebhook     Kind = "not-webhook"
	KindLLMRubric      Kind = "llm-rubric"
	KindJavaScript     Kind = "javascript"
	KindPython         Kind = "python"
	KindToolCallF1     Kind = "tool-call-f1"
	KindNotToolCallF1  Kind = "not-tool-call-f1"

	KindAnd       Kind = "and"
	KindOr        Kind = "or"
	KindAssertSet Kind = "assert-set"
)

// Assertion is the tagged-union node of the spec's data model: a leaf
// check (Kind outside {and, or, assert-set}) or a combinator carrying
// ordered Children. Modeling both as one struct — rather than a separate
// CombinatorAssertion type — mirrors the spec's own description of
// CombinatorAssertion as "a variant of Assertion" and avoids an
// interface{}-typed tree with type switches at every call site.
type Assertion struct {
	Kind Kind

	// Value is kind-specific: a string, a []string (contains-any/-all),
	// a callable body (javascript/python inline), a URL (webhook), or a
	// file:// reference. Populated by Parse or by config unmarshaling.
	Value any

	Threshold *float64
	Weight    *float64
	Metric    string
	Config    map[string]any

	// Name is the assert-set display name (SPEC_FULL §4.3.a); empty for
	// non-assert-set assertions.
	Name string

	// Children holds the ordered sub-assertions of a combinator. Empty
	// for leaf assertions.
	Children []Assertion

	// ShortCircuit overrides the combinator's default short-circuit
	// behavior (true) when no Threshold is set; a Threshold always turns
	// short-circuiting off. nil means "use default".
	ShortCircuit *bool
}

// IsCombinator reports whether this node is and/or/assert-set.
func (a Assertion) IsCombinator() bool {
	switch a.Kind {
	case KindAnd, KindOr, KindAssertSet:
		return true
	default:
		return false
	}
}

// Inverse reports whether Kind carries the "not-" prefix (§3).
func (a Assertion) Inverse() bool {
	return strings.HasPrefix(string(a.Kind), "not-")
}

// BaseKind strips a "not-" prefix, giving the underlying positive kind a
// handler is registered under.
func (a Assertion) BaseKind() Kind {
	if a.Inverse() {
		return Kind(strings.TrimPrefix(string(a.Kind), "not-"))
	}
	return a.Kind
}

// WeightOrDefault returns Weight, defaulting to 1 when unset.
func (a Assertion) WeightOrDefault() float64 {
	if a.Weight == nil {
		return 1
	}
	return *a.Weight
}

// EffectiveShortCircuit returns whether this combinator should
// short-circuit: never when a threshold is set (§4.3); otherwise the
// caller's explicit choice, or — absent one — true.
func (a Assertion) EffectiveShortCircuit() bool {
	if a.Threshold != nil {
		return false
	}
	if a.ShortCircuit != nil {
		return *a.ShortCircuit
	}
	return true
}

// StringValue coerces Value to a single string, the form most leaf
// handlers operate on.
func (a Assertion) StringValue() (string, bool) {
	switch v := a.Value.(type) {
	case string:
		return v, true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// ListValue coerces Value to a list of strings for contains-any/-all:
// accepts a native []string/[]any, or a single comma-separated string.
func (a Assertion) ListValue() []string {
	switch v := a.Value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out
	default:
		return nil
	}
}

// GradingResult is the recursive outcome of evaluating one Assertion
// (leaf) or Assertion tree (combinator). Each GradingResult exclusively
// owns its ComponentResults slice — no sharing, no back-references.
type GradingResult struct {
	Pass             bool
	Score            float64
	Reason           string
	NamedScores      map[string]float64
	TokensUsed       provider.TokenUsage
	ComponentResults []GradingResult
	Assertion        *Assertion
	Metadata         map[string]any
}

// withNamedScore returns a copy of r with a single named score recorded under
// name, provided name is non-empty (the template rendered to something).
func (r GradingResult) withNamedScore(name string, score float64) GradingResult {
	if name == "" {
		return r
	}
	if r.NamedScores == nil {
		r.NamedScores = map[string]float64{}
	} else {
		cp := make(map[string]float64, len(r.NamedScores)+1)
		for k, v := range r.NamedScores {
			cp[k] = v
		}
		r.NamedScores = cp
	}
	r.NamedScores[name] = score
	return r
}
