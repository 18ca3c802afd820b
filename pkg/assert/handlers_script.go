package assert

import (
	"context"
	"errors"
	"fmt"

	"github.com/evalforge/evalforge/pkg/script"
)

func registerScriptHandlers(r *Registry) {
	r.Register(KindJavaScript, true, handleJavaScript)
	r.Register(KindPython, true, handlePython)
}

func buildRunContext(a Assertion, ectx EvalContext) script.RunContext {
	var resp any
	if ectx.Response != nil {
		resp = ectx.Response
	}
	return script.RunContext{
		Prompt:           ectx.Prompt,
		Vars:             ectx.Vars,
		Provider:         ectx.Provider,
		ProviderResponse: resp,
		Config:           a.Config,
	}
}

func handleJavaScript(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	if ectx.Script == nil {
		return false, 0, "", errors.New("javascript assertion requires a script.Runner")
	}
	body, ok := a.StringValue()
	if !ok || body == "" {
		return false, 0, "", ErrMissingAssertionValue
	}
	res, err := ectx.Script.RunJavaScript(ctx, body, ectx.Output, buildRunContext(a, ectx))
	if err != nil {
		return false, 0, "", fmt.Errorf("javascript assertion: %w", err)
	}
	return scriptResultToGrading(res, a.Threshold)
}

func handlePython(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	if ectx.Script == nil {
		return false, 0, "", errors.New("python assertion requires a script.Runner")
	}
	body, ok := a.StringValue()
	if !ok || body == "" {
		return false, 0, "", ErrMissingAssertionValue
	}
	res, err := ectx.Script.RunPython(ctx, body, ectx.Output, buildRunContext(a, ectx))
	if err != nil {
		return false, 0, "", fmt.Errorf("python assertion: %w", err)
	}
	return scriptResultToGrading(res, a.Threshold)
}

// scriptResultToGrading coerces a script.Result into the (pass, score,
// reason) triple per §4.2's three return shapes: bool, number, or a
// verbatim GradingResult-shaped object (camelCase keys — Runner
// implementations own snake_case conversion for Python bodies).
func scriptResultToGrading(res script.Result, threshold *float64) (bool, float64, string, error) {
	switch {
	case res.Object != nil:
		pass, _ := res.Object["pass"].(bool)
		score, hasScore := res.Object["score"].(float64)
		if !hasScore {
			if pass {
				score = 1
			}
		}
		reason, _ := res.Object["reason"].(string)
		if reason == "" {
			reason = fmt.Sprintf("Script returned pass=%v score=%.4f", pass, score)
		}
		return pass, score, reason, nil

	case res.Number != nil:
		score := *res.Number
		t := 0.5
		if threshold != nil {
			t = *threshold
		}
		pass := score >= t
		if pass {
			return true, score, fmt.Sprintf("Script score %.4f is greater than or equal to threshold %.4f", score, t), nil
		}
		return false, score, fmt.Sprintf("Script score %.4f is less than threshold %.4f", score, t), nil

	case res.Bool != nil:
		pass := *res.Bool
		score := 0.0
		if pass {
			score = 1
		}
		if pass {
			return true, score, "Script returned true", nil
		}
		return false, score, "Script returned false", nil

	default:
		return false, 0, "", errors.New("script returned no usable result")
	}
}
