package assert

import (
	"context"
	"errors"
	"fmt"
	"math"
)

const defaultSimilarThreshold = 0.75

func registerSimilarHandler(r *Registry) {
	r.Register(KindSimilar, true, handleSimilar)
}

func handleSimilar(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	if ectx.Embedder == nil {
		return false, 0, "", errors.New("similar assertion requires an Embedder")
	}
	want, ok := a.StringValue()
	if !ok {
		return false, 0, "", ErrMissingAssertionValue
	}
	got := ectx.OutputString()

	gotVec, err := ectx.Embedder.Embed(ctx, got)
	if err != nil {
		return false, 0, "", fmt.Errorf("embedding output: %w", err)
	}
	wantVec, err := ectx.Embedder.Embed(ctx, want)
	if err != nil {
		return false, 0, "", fmt.Errorf("embedding expected value: %w", err)
	}

	score := cosineSimilarity(gotVec, wantVec)
	threshold := defaultSimilarThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	if score >= threshold {
		return true, score, fmt.Sprintf("Similarity %.4f is greater than or equal to threshold %.4f", score, threshold), nil
	}
	return false, score, fmt.Sprintf("Similarity %.4f is less than threshold %.4f", score, threshold), nil
}

func cosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, magA, magB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
