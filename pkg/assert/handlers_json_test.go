package assert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleIsJSON(t *testing.T) {
	r := NewRegistry()

	res := r.Dispatch(context.Background(), Assertion{Kind: KindIsJSON}, EvalContext{Output: `{"a": 1, "b": [1,2,3]}`})
	assert.True(t, res.Pass)

	res = r.Dispatch(context.Background(), Assertion{Kind: KindIsJSON}, EvalContext{Output: "not json at all"})
	assert.False(t, res.Pass)
}

func TestHandleIsJSONWithSchema(t *testing.T) {
	r := NewRegistry()
	a := Assertion{
		Kind:   KindIsJSON,
		Config: map[string]any{"schema": map[string]any{"type": "object", "required": []any{"name"}}},
	}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: `{"name": "foo"}`})
	assert.True(t, res.Pass)

	res = r.Dispatch(context.Background(), a, EvalContext{Output: `{"other": "foo"}`})
	assert.False(t, res.Pass)
}

func TestHandleContainsJSON(t *testing.T) {
	r := NewRegistry()
	res := r.Dispatch(context.Background(), Assertion{Kind: KindContainsJSON}, EvalContext{
		Output: `Here is the result: {"status": "ok"} — thanks!`,
	})
	assert.True(t, res.Pass)

	res = r.Dispatch(context.Background(), Assertion{Kind: KindContainsJSON}, EvalContext{Output: "no json here"})
	assert.False(t, res.Pass)
}
