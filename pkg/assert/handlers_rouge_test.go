package assert

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandleRougeN(t *testing.T) {
	r := NewRegistry()
	a := Assertion{Kind: KindRougeN, Value: "the quick brown fox jumps over the lazy dog"}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "the quick brown fox jumps over the lazy dog"})
	assert.True(t, res.Pass)
	assert.Equal(t, 1.0, res.Score)

	res = r.Dispatch(context.Background(), a, EvalContext{Output: "completely different text with nothing in common"})
	assert.False(t, res.Pass)
}

func TestHandleNotRougeNKeepsScoreFlipsPassOnly(t *testing.T) {
	r := NewRegistry()
	a := Assertion{Kind: KindNotRougeN, Value: "the quick brown fox jumps over the lazy dog"}
	res := r.Dispatch(context.Background(), a, EvalContext{Output: "the quick brown fox jumps over the lazy dog"})
	// Binary-complement would expect score 0; continuous kinds keep the raw score.
	assert.False(t, res.Pass)
	assert.Equal(t, 1.0, res.Score)
}

func TestRougeNF1Symmetric(t *testing.T) {
	a := rougeNF1("the cat sat", "the cat sat", 1)
	assert.Equal(t, 1.0, a)

	b := rougeNF1("", "the cat sat", 1)
	assert.Equal(t, 0.0, b)
}
