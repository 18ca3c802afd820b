package assert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/evalforge/evalforge/pkg/provider"
	"github.com/evalforge/evalforge/pkg/render"
)

func registerRubricHandler(r *Registry) {
	r.Register(KindLLMRubric, true, handleLLMRubric)
}

const rubricPromptTemplate = `You are grading an AI system's output against a rubric.

Rubric:
{{rubric}}

Output to grade:
{{output}}

Respond with a single JSON object of the shape {"pass": boolean, "score": number between 0 and 1, "reason": string}.`

type rubricJudgement struct {
	Pass   bool    `json:"pass"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

func handleLLMRubric(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	if ectx.Grader == nil {
		return false, 0, "", errors.New("llm-rubric assertion requires a Grader provider")
	}
	rubric, ok := a.StringValue()
	if !ok || rubric == "" {
		return false, 0, "", ErrMissingAssertionValue
	}

	prompt := render.String(rubricPromptTemplate, map[string]any{
		"rubric": rubric,
		"output": ectx.OutputString(),
	})

	resp, err := ectx.Grader.Call(ctx, prompt, provider.CallContext{})
	if err != nil {
		return false, 0, "", fmt.Errorf("llm-rubric grader call: %w", err)
	}

	frag, ok := firstJSONFragment(resp.OutputString())
	if !ok {
		return false, 0, "", errors.New("llm-rubric grader did not return JSON")
	}
	var j rubricJudgement
	if err := json.Unmarshal([]byte(frag), &j); err != nil {
		return false, 0, "", fmt.Errorf("llm-rubric grader returned malformed JSON: %w", err)
	}

	return j.Pass, j.Score, j.Reason, nil
}
