package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSuite(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validSuite = `
providers:
  - id: p1
    type: stub
prompts:
  - id: greet
    raw: "Hello, {{name}}!"
tests:
  - description: "says hello"
    vars:
      name: World
    assert:
      - "contains:Hello"
evaluateOptions:
  maxConcurrency: 2
`

func TestInitializeLoadsValidSuite(t *testing.T) {
	path := writeSuite(t, validSuite)

	suite, err := Initialize(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, suite.Providers, 1)
	assert.Equal(t, "p1", suite.Providers[0].ID)
	require.Len(t, suite.Prompts, 1)
	assert.Equal(t, "Hello, {{name}}!", suite.Prompts[0].Raw)
	require.Len(t, suite.Tests, 1)
	require.Len(t, suite.Tests[0].Assertions, 1)
	assert.Equal(t, 2, suite.Options.MaxConcurrency)
}

func TestInitializeMissingFileReturnsLoadError(t *testing.T) {
	_, err := Initialize(context.Background(), filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestInitializeExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_API_KEY", "secret-value")
	suiteYAML := `
providers:
  - id: p1
    type: stub
    options:
      apiKey: ${TEST_API_KEY}
prompts:
  - id: greet
    raw: "hi"
tests:
  - assert:
      - "contains:h"
`
	path := writeSuite(t, suiteYAML)

	suite, err := Initialize(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "secret-value", suite.Providers[0].Options["apiKey"])
}

func TestInitializeAppliesDefaultEvaluateOptions(t *testing.T) {
	path := writeSuite(t, validSuite)
	suite, err := Initialize(context.Background(), path)
	require.NoError(t, err)

	assert.True(t, suite.Options.CacheEnabled)
	assert.Equal(t, 2, suite.Options.MaxRetries)
}

func TestInitializeRejectsDuplicateProviderIDs(t *testing.T) {
	suiteYAML := `
providers:
  - id: p1
    type: stub
  - id: p1
    type: stub
prompts:
  - id: greet
    raw: "hi"
tests:
  - assert:
      - "contains:h"
`
	path := writeSuite(t, suiteYAML)
	_, err := Initialize(context.Background(), path)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestInitializeRejectsInvalidAssertionShape(t *testing.T) {
	suiteYAML := `
providers:
  - id: p1
    type: stub
prompts:
  - id: greet
    raw: "hi"
tests:
  - assert:
      - kind: contains-any
        value: "not-a-list"
`
	path := writeSuite(t, suiteYAML)
	_, err := Initialize(context.Background(), path)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestInitializeRejectsMissingRequiredSections(t *testing.T) {
	suiteYAML := `
providers: []
prompts: []
tests: []
`
	path := writeSuite(t, suiteYAML)
	_, err := Initialize(context.Background(), path)
	assert.Error(t, err)
}
