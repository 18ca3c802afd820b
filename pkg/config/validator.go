package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator validates a loaded SuiteYAMLConfig comprehensively, with
// clear error messages — mirrors pkg/config/validator.go's
// Validator/ValidateAll shape, but drives struct-tag validation through
// go-playground/validator/v10 (promoted here from gin's indirect
// dependency to a direct one) instead of hand-written field checks,
// since the EvalSuite shape is regular enough for tags to cover it.
type Validator struct {
	cfg *SuiteYAMLConfig
	v   *validator.Validate
}

// NewValidator creates a validator for the given suite config.
func NewValidator(cfg *SuiteYAMLConfig) *Validator {
	return &Validator{cfg: cfg, v: validator.New()}
}

// ValidateAll runs struct-tag validation, then the checks tags can't
// express: ID uniqueness and the assertion-shape JSON-Schema second pass.
func (val *Validator) ValidateAll() error {
	if err := val.v.Struct(val.cfg); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}

	if err := val.validateUniqueIDs(); err != nil {
		return err
	}

	if err := val.validateAssertionShapes(); err != nil {
		return err
	}

	return nil
}

func (val *Validator) validateUniqueIDs() error {
	seenProviders := make(map[string]bool, len(val.cfg.Providers))
	for _, p := range val.cfg.Providers {
		if seenProviders[p.ID] {
			return NewValidationError("provider", p.ID, "id", fmt.Errorf("%w: duplicate provider id", ErrInvalidValue))
		}
		seenProviders[p.ID] = true
	}

	seenPrompts := make(map[string]bool, len(val.cfg.Prompts))
	for _, p := range val.cfg.Prompts {
		if seenPrompts[p.ID] {
			return NewValidationError("prompt", p.ID, "id", fmt.Errorf("%w: duplicate prompt id", ErrInvalidValue))
		}
		seenPrompts[p.ID] = true
	}

	return nil
}

func (val *Validator) validateAssertionShapes() error {
	for i, test := range val.cfg.Tests {
		for j, a := range test.Assert {
			if err := validateAssertionShape(a, fmt.Sprintf("tests[%d].assert[%d]", i, j)); err != nil {
				return NewValidationError("test", fmt.Sprintf("%d", i), "assert", err)
			}
		}
	}
	return nil
}
