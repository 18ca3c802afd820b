package assert

import (
	"context"
	"fmt"

	"github.com/evalforge/evalforge/pkg/render"
)

// evalCombinator evaluates an and/or/assert-set tree (C3).
func (r *Registry) evalCombinator(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	switch a.Kind {
	case KindAnd:
		return r.evalAnd(ctx, a, ectx)
	case KindOr:
		return r.evalOr(ctx, a, ectx)
	default:
		return r.evalAssertSet(ctx, a, ectx)
	}
}

// inheritConfig shallow-merges parent.Config into child.Config, child
// values winning on conflict (§4.3).
func inheritConfig(parent, child Assertion) Assertion {
	if len(parent.Config) == 0 {
		return child
	}
	merged := make(map[string]any, len(parent.Config)+len(child.Config))
	for k, v := range parent.Config {
		merged[k] = v
	}
	for k, v := range child.Config {
		merged[k] = v
	}
	out := child
	out.Config = merged
	return out
}

func mergeNamedScores(dst, src map[string]float64, prefix string) {
	for k, v := range src {
		dst[prefix+k] = v
	}
}

// evalAnd implements §4.3's `and`: sequential, default short-circuit on
// first failure, weighted-average score, pass iff score ≥ threshold
// (default 1.0).
func (r *Registry) evalAnd(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	shortCircuit := a.EffectiveShortCircuit()

	var results []GradingResult
	var totalWeight, weightedSum float64
	var firstFailReason string
	executed := 0
	namedScores := map[string]float64{}

	for i, rawChild := range a.Children {
		child := inheritConfig(a, rawChild)
		res := r.Dispatch(ctx, child, ectx)
		results = append(results, res)
		executed++
		mergeNamedScores(namedScores, res.NamedScores, fmt.Sprintf("%s[%d].", a.Kind, i))

		w := child.WeightOrDefault()
		totalWeight += w
		weightedSum += res.Score * w

		if !res.Pass {
			if firstFailReason == "" {
				firstFailReason = res.Reason
			}
			if shortCircuit {
				break
			}
		}
	}

	skipped := len(a.Children) - executed
	score := 1.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	threshold := 1.0
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	pass := score >= threshold

	reason := "All assertions passed"
	if !pass {
		if firstFailReason != "" {
			reason = firstFailReason
		} else {
			reason = fmt.Sprintf("Aggregate score %.2f < %.2f threshold", score, threshold)
		}
	}

	result := GradingResult{
		Pass:             pass,
		Score:            score,
		Reason:           reason,
		ComponentResults: results,
		Assertion:        &a,
		Metadata:         map[string]any{"executedCount": executed, "skippedCount": skipped},
		NamedScores:      namedScores,
	}
	return result.withNamedScore(render.String(a.Metric, ectx.Vars), score)
}

// evalOr implements §4.3's `or`: sequential, default short-circuit on
// first pass, max-score unless thresholded (then weighted average), pass
// iff max(score) > 0 when unthresholded (§9 open-question resolution).
func (r *Registry) evalOr(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	shortCircuit := a.EffectiveShortCircuit()

	var results []GradingResult
	var totalWeight, weightedSum, maxScore float64
	executed := 0
	namedScores := map[string]float64{}

	for i, rawChild := range a.Children {
		child := inheritConfig(a, rawChild)
		res := r.Dispatch(ctx, child, ectx)
		results = append(results, res)
		executed++
		mergeNamedScores(namedScores, res.NamedScores, fmt.Sprintf("%s[%d].", a.Kind, i))

		w := child.WeightOrDefault()
		totalWeight += w
		weightedSum += res.Score * w
		if res.Score > maxScore {
			maxScore = res.Score
		}

		if res.Pass && shortCircuit {
			break
		}
	}

	skipped := len(a.Children) - executed

	var score float64
	var pass bool
	var reason string
	if a.Threshold != nil {
		if totalWeight > 0 {
			score = weightedSum / totalWeight
		}
		pass = score >= *a.Threshold
		if pass {
			reason = fmt.Sprintf("Aggregate score %.2f ≥ %.2f threshold", score, *a.Threshold)
		} else {
			reason = fmt.Sprintf("Aggregate score %.2f < %.2f threshold", score, *a.Threshold)
		}
	} else {
		score = maxScore
		pass = maxScore > 0
		if pass {
			reason = "At least one assertion passed"
		} else {
			reason = "No assertion passed"
		}
	}

	result := GradingResult{
		Pass:             pass,
		Score:            score,
		Reason:           reason,
		ComponentResults: results,
		Assertion:        &a,
		Metadata:         map[string]any{"executedCount": executed, "skippedCount": skipped},
		NamedScores:      namedScores,
	}
	return result.withNamedScore(render.String(a.Metric, ectx.Vars), score)
}

// evalAssertSet implements §4.3's `assert-set`: runs every child
// unconditionally (no short-circuit), weighted-average score, pass iff
// score ≥ (set.threshold ?? 1.0). Children's metric names are never
// path-prefixed (§3 Invariant 4).
func (r *Registry) evalAssertSet(ctx context.Context, a Assertion, ectx EvalContext) GradingResult {
	var results []GradingResult
	var totalWeight, weightedSum float64
	namedScores := map[string]float64{}

	for _, rawChild := range a.Children {
		child := inheritConfig(a, rawChild)
		res := r.Dispatch(ctx, child, ectx)
		results = append(results, res)
		mergeNamedScores(namedScores, res.NamedScores, "")

		w := child.WeightOrDefault()
		totalWeight += w
		weightedSum += res.Score * w
	}

	score := 1.0
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}
	threshold := 1.0
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	pass := score >= threshold

	reason := "All assertions passed"
	if !pass {
		reason = fmt.Sprintf("Aggregate score %.2f < %.2f threshold", score, threshold)
	}

	result := GradingResult{
		Pass:             pass,
		Score:            score,
		Reason:           reason,
		ComponentResults: results,
		Assertion:        &a,
		Metadata:         map[string]any{"executedCount": len(a.Children), "skippedCount": 0},
		NamedScores:      namedScores,
	}

	metricName := a.Name
	if metricName == "" {
		metricName = render.String(a.Metric, ectx.Vars)
	}
	if metricName == "" {
		metricName = "assert-set"
	}
	return result.withNamedScore(metricName, score)
}
