package assert

import (
	"context"
	"fmt"
	"strings"
)

const defaultRougeThreshold = 0.75

func registerRougeHandler(r *Registry) {
	r.Register(KindRougeN, true, handleRougeN)
}

func handleRougeN(ctx context.Context, a Assertion, ectx EvalContext) (bool, float64, string, error) {
	reference, ok := a.StringValue()
	if !ok {
		return false, 0, "", ErrMissingAssertionValue
	}
	candidate := ectx.OutputString()

	n := 1
	if nv, ok := a.Config["n"]; ok {
		switch v := nv.(type) {
		case int:
			n = v
		case float64:
			n = int(v)
		}
	}

	score := rougeNF1(candidate, reference, n)
	threshold := defaultRougeThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}

	if score >= threshold {
		return true, score, fmt.Sprintf("ROUGE-N score %.4f is greater than or equal to threshold %.4f", score, threshold), nil
	}
	return false, score, fmt.Sprintf("ROUGE-N score %.4f is less than threshold %.4f", score, threshold), nil
}

// rougeNF1 computes the n-gram-overlap F1 score between candidate and
// reference, counting repeated n-grams up to their minimum multiplicity
// across the two (the standard ROUGE clipped-count definition).
func rougeNF1(candidate, reference string, n int) float64 {
	candGrams := ngramCounts(tokenize(candidate), n)
	refGrams := ngramCounts(tokenize(reference), n)

	candTotal := sumCounts(candGrams)
	refTotal := sumCounts(refGrams)
	if candTotal == 0 || refTotal == 0 {
		return 0
	}

	overlap := 0
	for gram, count := range candGrams {
		if rc, ok := refGrams[gram]; ok {
			if rc < count {
				overlap += rc
			} else {
				overlap += count
			}
		}
	}

	precision := float64(overlap) / float64(candTotal)
	recall := float64(overlap) / float64(refTotal)
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

func ngramCounts(tokens []string, n int) map[string]int {
	counts := map[string]int{}
	if n <= 0 || len(tokens) < n {
		return counts
	}
	for i := 0; i+n <= len(tokens); i++ {
		gram := strings.Join(tokens[i:i+n], " ")
		counts[gram]++
	}
	return counts
}

func sumCounts(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}
