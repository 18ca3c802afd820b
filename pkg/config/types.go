package config

import "github.com/evalforge/evalforge/pkg/assert"

// SuiteYAMLConfig is the top-level shape of an eval-suite YAML file: the
// Go-native equivalent of a promptfooconfig.yaml (§3's EvalSuite, as the
// wire format the Config Loader (A1) parses before converting to
// eval.EvalSuite).
type SuiteYAMLConfig struct {
	Providers       []ProviderYAML       `yaml:"providers" validate:"required,min=1,dive"`
	Prompts         []PromptYAML         `yaml:"prompts" validate:"required,min=1,dive"`
	Tests           []TestYAML           `yaml:"tests" validate:"required,min=1,dive"`
	EvaluateOptions *EvaluateOptionsYAML `yaml:"evaluateOptions,omitempty"`
}

// ProviderYAML names one Provider implementation and its call-time
// options. The loader does not construct provider.Provider values itself
// — that's a host concern (cmd/evalforge) — it only parses and validates
// the configuration shape.
type ProviderYAML struct {
	ID      string         `yaml:"id" validate:"required"`
	Type    string         `yaml:"type" validate:"required"`
	Label   string         `yaml:"label,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// PromptYAML is one prompt template. Raw may be inline text or a
// resolver URI (file://, huggingface://, langfuse://, bedrock://) — the
// loader passes it through unresolved; resolving URIs into final
// template text is pkg/resolvers' job (C9), kept out of the config
// loader so the loader stays a pure parse-and-validate step.
type PromptYAML struct {
	ID       string         `yaml:"id" validate:"required"`
	Raw      string         `yaml:"raw" validate:"required"`
	Label    string         `yaml:"label,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// TestYAML is one atomic test case.
type TestYAML struct {
	Description string             `yaml:"description,omitempty"`
	Vars        map[string]any     `yaml:"vars,omitempty"`
	Assert      []assert.Assertion `yaml:"assert" validate:"required,min=1"`
	Options     map[string]any     `yaml:"options,omitempty"`
	Repeat      int                `yaml:"repeat,omitempty" validate:"omitempty,min=1"`
}

// EvaluateOptionsYAML governs how the Scheduler fans work out (§5).
// CacheEnabled is a pointer so that dario.cat/mergo's override merge can
// tell "unset, take the built-in default" from an explicit false (mirrors
// pkg/config/merge.go's VerifySSL *bool idiom). The int fields are plain
// values: an explicit 0 is indistinguishable from unset and keeps the
// built-in default.
type EvaluateOptionsYAML struct {
	MaxConcurrency int   `yaml:"maxConcurrency,omitempty" validate:"omitempty,min=1"`
	DelayMs        int   `yaml:"delayMs,omitempty" validate:"omitempty,min=0"`
	CacheEnabled   *bool `yaml:"cacheEnabled,omitempty"`
	Timeout        int   `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
	MaxRetries     int   `yaml:"maxRetries,omitempty" validate:"omitempty,min=0"`
}
