package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationErrorFormatting(t *testing.T) {
	err := NewValidationError("provider", "p1", "type", ErrMissingRequiredField)
	assert.Contains(t, err.Error(), "provider 'p1'")
	assert.Contains(t, err.Error(), "field 'type'")
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestValidationErrorFormattingWithoutField(t *testing.T) {
	err := NewValidationError("test", "0", "", ErrInvalidValue)
	assert.NotContains(t, err.Error(), "field")
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoadErrorFormatting(t *testing.T) {
	err := NewLoadError("suite.yaml", ErrConfigNotFound)
	assert.Contains(t, err.Error(), "suite.yaml")
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.True(t, errors.As(err, new(*LoadError)))
}
