package config

import "github.com/evalforge/evalforge/pkg/eval"

// DefaultEvaluateOptions returns the built-in EvaluateOptions applied when
// a suite's evaluateOptions block omits a field. Mirrors the teacher's
// DefaultQueueConfig: a fully-populated baseline that user YAML overrides
// field by field via mergo.
func DefaultEvaluateOptions() eval.EvaluateOptions {
	return eval.EvaluateOptions{
		MaxConcurrency: 4,
		DelayMs:        0,
		CacheEnabled:   true,
		Timeout:        30_000,
		MaxRetries:     2,
	}
}
