package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeEvaluateOptionsNilUsesDefaults(t *testing.T) {
	opts, err := mergeEvaluateOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultEvaluateOptions(), opts)
}

func TestMergeEvaluateOptionsOverridesNonZeroFields(t *testing.T) {
	opts, err := mergeEvaluateOptions(&EvaluateOptionsYAML{MaxConcurrency: 16})
	require.NoError(t, err)

	assert.Equal(t, 16, opts.MaxConcurrency)
	assert.Equal(t, DefaultEvaluateOptions().MaxRetries, opts.MaxRetries)
}

func TestMergeEvaluateOptionsCacheEnabledFalseOverridesDefaultTrue(t *testing.T) {
	disabled := false
	opts, err := mergeEvaluateOptions(&EvaluateOptionsYAML{CacheEnabled: &disabled})
	require.NoError(t, err)
	assert.False(t, opts.CacheEnabled)
}

func TestMergeEvaluateOptionsLeavesUnsetCacheEnabledAtDefault(t *testing.T) {
	opts, err := mergeEvaluateOptions(&EvaluateOptionsYAML{MaxConcurrency: 8})
	require.NoError(t, err)
	assert.True(t, opts.CacheEnabled)
}
