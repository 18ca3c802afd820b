package config

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/evalforge/evalforge/pkg/eval"
)

// mergeEvaluateOptions merges a suite's user-supplied evaluateOptions over
// the built-in defaults, non-zero user values winning. Mirrors
// pkg/config/loader.go's queue-config merge: start from the default,
// then mergo.Merge the user override on top.
func mergeEvaluateOptions(user *EvaluateOptionsYAML) (eval.EvaluateOptions, error) {
	opts := DefaultEvaluateOptions()
	if user == nil {
		return opts, nil
	}

	override := eval.EvaluateOptions{
		MaxConcurrency: user.MaxConcurrency,
		DelayMs:        user.DelayMs,
		Timeout:        user.Timeout,
		MaxRetries:     user.MaxRetries,
	}
	if err := mergo.Merge(&opts, override, mergo.WithOverride); err != nil {
		return eval.EvaluateOptions{}, fmt.Errorf("failed to merge evaluateOptions: %w", err)
	}
	if user.CacheEnabled != nil {
		opts.CacheEnabled = *user.CacheEnabled
	}
	return opts, nil
}
