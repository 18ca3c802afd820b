package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evalforge/evalforge/pkg/assert"
	"github.com/evalforge/evalforge/pkg/eval"
)

// Initialize loads, validates, and returns a ready-to-use EvalSuite from
// one YAML file. This is the primary entry point for config loading (A1).
//
// Steps performed:
//  1. Read the suite file
//  2. Expand ${ENV_VAR} references
//  3. Parse YAML into SuiteYAMLConfig (assertions parse via their own
//     shorthand/structured grammar as part of this step)
//  4. Merge evaluateOptions over built-in defaults
//  5. Validate the result (struct tags + cross-field + assertion shapes)
//  6. Convert to eval.EvalSuite
func Initialize(_ context.Context, suitePath string) (*eval.EvalSuite, error) {
	log := slog.With("component", "config", "suite_path", suitePath)
	log.Info("loading eval suite")

	raw, err := os.ReadFile(suitePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewLoadError(suitePath, fmt.Errorf("%w: %s", ErrConfigNotFound, suitePath))
		}
		return nil, NewLoadError(suitePath, err)
	}

	raw = ExpandEnv(raw)

	var yamlCfg SuiteYAMLConfig
	if err := yaml.Unmarshal(raw, &yamlCfg); err != nil {
		return nil, NewLoadError(suitePath, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}

	options, err := mergeEvaluateOptions(yamlCfg.EvaluateOptions)
	if err != nil {
		return nil, NewLoadError(suitePath, err)
	}

	if err := NewValidator(&yamlCfg).ValidateAll(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	suite := toEvalSuite(yamlCfg, options)

	log.Info("eval suite loaded",
		"providers", len(suite.Providers),
		"prompts", len(suite.Prompts),
		"tests", len(suite.Tests))

	return &suite, nil
}

func toEvalSuite(y SuiteYAMLConfig, options eval.EvaluateOptions) eval.EvalSuite {
	providers := make([]eval.ProviderConfig, len(y.Providers))
	for i, p := range y.Providers {
		providers[i] = eval.ProviderConfig{ID: p.ID, Type: p.Type, Options: p.Options, Label: p.Label}
	}

	prompts := make([]eval.Prompt, len(y.Prompts))
	for i, p := range y.Prompts {
		prompts[i] = eval.Prompt{ID: p.ID, Raw: p.Raw, Label: p.Label, Metadata: p.Metadata}
	}

	tests := make([]eval.AtomicTestCase, len(y.Tests))
	for i, t := range y.Tests {
		tests[i] = eval.AtomicTestCase{
			Description: t.Description,
			Vars:        t.Vars,
			Assertions:  cloneAssertions(t.Assert),
			Options:     t.Options,
			Repeat:      t.Repeat,
		}
	}

	return eval.EvalSuite{Providers: providers, Prompts: prompts, Tests: tests, Options: options}
}

func cloneAssertions(in []assert.Assertion) []assert.Assertion {
	out := make([]assert.Assertion, len(in))
	copy(out, in)
	return out
}
