package assert

import (
	"context"
	"fmt"

	"github.com/evalforge/evalforge/pkg/provider"
)

const defaultToolCallF1Threshold = 1.0

func registerToolCallHandler(r *Registry) {
	r.Register(KindToolCallF1, true, handleToolCallF1)
}

func handleToolCallF1(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	expected := a.ListValue()
	if len(expected) == 0 {
		return false, 0, "", ErrMissingAssertionValue
	}

	actual := provider.ExtractToolCallNames(ectx.Output)

	var truePositives int
	expectedSet := map[string]bool{}
	for _, name := range expected {
		expectedSet[name] = true
	}
	for name := range expectedSet {
		if actual[name] {
			truePositives++
		}
	}

	var precision, recall float64
	if len(actual) > 0 {
		precision = float64(truePositives) / float64(len(actual))
	}
	if len(expectedSet) > 0 {
		recall = float64(truePositives) / float64(len(expectedSet))
	}

	var f1 float64
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	threshold := defaultToolCallF1Threshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	if f1 >= threshold {
		return true, f1, fmt.Sprintf("Tool call F1 %.4f is greater than or equal to threshold %.4f", f1, threshold), nil
	}
	return false, f1, fmt.Sprintf("Tool call F1 %.4f is less than threshold %.4f", f1, threshold), nil
}
