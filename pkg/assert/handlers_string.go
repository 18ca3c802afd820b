package assert

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

func registerStringHandlers(r *Registry) {
	r.Register(KindEquals, false, handleEquals)
	r.Register(KindContains, false, handleContains)
	r.Register(KindIContains, false, handleIContains)
	r.Register(KindContainsAny, false, handleContainsAny)
	r.Register(KindContainsAll, false, handleContainsAll)
	r.Register(KindRegex, false, handleRegex)
	r.Register(KindStartsWith, false, handleStartsWith)
}

func handleEquals(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	want, _ := a.StringValue()
	got := ectx.OutputString()
	if got == want {
		return true, 1, fmt.Sprintf("Output %q equals %q", got, want), nil
	}
	return false, 0, fmt.Sprintf("Output %q does not equal %q", got, want), nil
}

func handleContains(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	want, _ := a.StringValue()
	got := ectx.OutputString()
	if strings.Contains(got, want) {
		return true, 1, fmt.Sprintf("Output contains %q", want), nil
	}
	return false, 0, fmt.Sprintf("Output does not contain %q", want), nil
}

func handleIContains(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	want, _ := a.StringValue()
	got := ectx.OutputString()
	if strings.Contains(strings.ToLower(got), strings.ToLower(want)) {
		return true, 1, fmt.Sprintf("Output contains %q (case-insensitive)", want), nil
	}
	return false, 0, fmt.Sprintf("Output does not contain %q (case-insensitive)", want), nil
}

func handleContainsAny(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	candidates := a.ListValue()
	if len(candidates) == 0 {
		return false, 0, "", ErrMissingAssertionValue
	}
	got := ectx.OutputString()
	for _, c := range candidates {
		if strings.Contains(got, c) {
			return true, 1, fmt.Sprintf("Output contains %q", c), nil
		}
	}
	return false, 0, fmt.Sprintf("Output does not contain any of %v", candidates), nil
}

func handleContainsAll(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	candidates := a.ListValue()
	if len(candidates) == 0 {
		return false, 0, "", ErrMissingAssertionValue
	}
	got := ectx.OutputString()
	for _, c := range candidates {
		if !strings.Contains(got, c) {
			return false, 0, fmt.Sprintf("Output does not contain %q", c), nil
		}
	}
	return true, 1, fmt.Sprintf("Output contains all of %v", candidates), nil
}

func handleRegex(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	pattern, _ := a.StringValue()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, 0, "", fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	got := ectx.OutputString()
	if re.MatchString(got) {
		return true, 1, fmt.Sprintf("Output matches pattern %q", pattern), nil
	}
	return false, 0, fmt.Sprintf("Output does not match pattern %q", pattern), nil
}

func handleStartsWith(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	prefix, _ := a.StringValue()
	got := ectx.OutputString()
	if strings.HasPrefix(got, prefix) {
		return true, 1, fmt.Sprintf("Output starts with %q", prefix), nil
	}
	return false, 0, fmt.Sprintf("Output does not start with %q", prefix), nil
}
