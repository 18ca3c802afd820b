package assert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShorthand(t *testing.T) {
	tests := []struct {
		name          string
		shorthand     string
		wantKind      Kind
		wantThreshold *float64
		wantValue     any
	}{
		{name: "bare string implies equals", shorthand: "hello world", wantKind: KindEquals, wantValue: "hello world"},
		{name: "structured contains", shorthand: "contains:needle", wantKind: KindContains, wantValue: "needle"},
		{name: "bare string with colon falls through to equals", shorthand: "time: 10:30", wantKind: KindEquals, wantValue: "time: 10:30"},
		{name: "fn prefix is javascript", shorthand: "fn:output.length > 0", wantKind: KindJavaScript, wantValue: "output.length > 0"},
		{name: "not- prefixed kind", shorthand: "not-contains:needle", wantKind: KindNotContains, wantValue: "needle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Parse(tt.shorthand)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, a.Kind)
			assert.Equal(t, tt.wantValue, a.Value)
		})
	}
}

func TestParseThreshold(t *testing.T) {
	a, err := Parse("similar(0.9):expected text")
	require.NoError(t, err)
	require.NotNil(t, a.Threshold)
	assert.Equal(t, 0.9, *a.Threshold)
	assert.Equal(t, KindSimilar, a.Kind)
	assert.Equal(t, "expected text", a.Value)
}

func TestParseContainsAnySplitsList(t *testing.T) {
	a, err := Parse("contains-any:foo, bar ,baz")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "bar", "baz"}, a.Value)
}

func TestDispatchLeafWeightZeroSkips(t *testing.T) {
	r := NewRegistry()
	zero := 0.0
	a := Assertion{Kind: KindEquals, Value: "never checked", Weight: &zero}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "anything"})
	assert.True(t, res.Pass)
	assert.Equal(t, 1.0, res.Score)
	assert.Equal(t, true, res.Metadata["skipped"])
}

func TestDispatchUnknownKind(t *testing.T) {
	r := NewRegistry()
	a := Assertion{Kind: Kind("made-up-kind"), Value: "x"}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "x"})
	assert.False(t, res.Pass)
	assert.Contains(t, res.Reason, "Unknown assertion type")
}

func TestDispatchNotInversionFlipsBinaryScore(t *testing.T) {
	r := NewRegistry()
	a := Assertion{Kind: KindNotContains, Value: "needle"}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "no match here"})
	assert.True(t, res.Pass)
	assert.Equal(t, 1.0, res.Score)

	res2 := r.Dispatch(context.Background(), a, EvalContext{Output: "a needle in a haystack"})
	assert.False(t, res2.Pass)
	assert.Equal(t, 0.0, res2.Score)
}

func TestDispatchNotInversionOnContinuousKeepsScore(t *testing.T) {
	r := NewRegistry()
	threshold := 0.5
	a := Assertion{Kind: KindNotRougeN, Value: "the quick brown fox", Threshold: &threshold}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "completely unrelated text here"})
	// Score stays the raw rouge score (continuous); only Pass flips.
	assert.True(t, res.Pass)
	assert.Equal(t, 0.0, res.Score)
}

func TestDispatchMetricName(t *testing.T) {
	r := NewRegistry()
	a := Assertion{Kind: KindContains, Value: "hi", Metric: "greeting-check"}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "hi there"})
	assert.Equal(t, 1.0, res.NamedScores["greeting-check"])
}

func TestRegisterOverridesHandler(t *testing.T) {
	r := NewRegistry()
	r.Register(KindEquals, false, func(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
		return true, 1, "always passes in this test", nil
	})
	res := r.Dispatch(context.Background(), Assertion{Kind: KindEquals, Value: "x"}, EvalContext{Output: "y"})
	assert.True(t, res.Pass)
	assert.Equal(t, "always passes in this test", res.Reason)
}
