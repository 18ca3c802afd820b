package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigNotFound indicates the eval-suite file was not found.
	ErrConfigNotFound = errors.New("eval suite file not found")

	// ErrInvalidYAML indicates YAML parsing failed.
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrValidationFailed indicates eval-suite validation failed.
	ErrValidationFailed = errors.New("eval suite validation failed")

	// ErrProviderNotFound indicates a test references a provider id that
	// has no entry in suite.providers.
	ErrProviderNotFound = errors.New("provider not found")

	// ErrPromptNotFound indicates a test references a prompt id that has
	// no entry in suite.prompts.
	ErrPromptNotFound = errors.New("prompt not found")

	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrInvalidValue indicates a field has an invalid value.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrInvalidAssertionShape indicates an assertion failed its
	// JSON-Schema second pass (e.g. contains-any given a non-list value).
	ErrInvalidAssertionShape = errors.New("invalid assertion shape")
)

// ValidationError wraps eval-suite validation errors with context.
type ValidationError struct {
	Component string // Component being validated (provider, prompt, test)
	ID        string // ID/index of the component
	Field     string // Field name (optional)
	Err       error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s '%s': field '%s': %v", e.Component, e.ID, e.Field, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Component, e.ID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error.
func NewValidationError(component, id, field string, err error) *ValidationError {
	return &ValidationError{
		Component: component,
		ID:        id,
		Field:     field,
		Err:       err,
	}
}

// LoadError wraps eval-suite loading errors with file context.
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new load error.
func NewLoadError(file string, err error) *LoadError {
	return &LoadError{File: file, Err: err}
}
