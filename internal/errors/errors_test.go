package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "basic error",
			err: &Error{
				Type:    ErrorTypeConfig,
				Code:    "TEST_ERROR",
				Message: "test message",
			},
			expected: "[TEST_ERROR] test message",
		},
		{
			name: "error with component",
			err: &Error{
				Type:      ErrorTypeConfig,
				Code:      "TEST_ERROR",
				Message:   "test message",
				Component: "bootstrap",
			},
			expected: "[TEST_ERROR] component:bootstrap test message",
		},
		{
			name: "error with cause",
			err: &Error{
				Type:    ErrorTypeInstallation,
				Code:    "TEST_ERROR",
				Message: "test message",
				Cause:   errors.New("underlying error"),
			},
			expected: "[TEST_ERROR] test message: underlying error",
		},
		{
			name: "error with suggestion",
			err: &Error{
				Type:       ErrorTypeConfig,
				Code:       "TEST_ERROR",
				Message:    "test message",
				Suggestion: "flip the switch",
			},
			expected: "[TEST_ERROR] test message (flip the switch)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorIsMatchesTypeAndCode(t *testing.T) {
	sentinel := NewPreconditionError(ErrCodeCacheFolderUnset, "cache folder should be set before first use")
	err := fmt.Errorf("wrapped: %w", NewPreconditionError(ErrCodeCacheFolderUnset, "other message"))

	assert.ErrorIs(t, err, sentinel)
	assert.NotErrorIs(t, err, NewPreconditionError("ERR_OTHER", "x"))
	assert.NotErrorIs(t, err, NewConfigError(ErrCodeCacheFolderUnset, "x"))
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := NewInstallationError(ErrCodeVersionUnreadable, "cannot read VERSION", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestClassification(t *testing.T) {
	install := NewInstallationError(ErrCodeVersionUnreadable, "x", nil)
	unsafe := NewConfigError(ErrCodeUnsafeRuntime, "x")
	precond := NewPreconditionError(ErrCodeCacheFolderUnset, "x")
	otherConfig := NewConfigError(ErrCodeConfigInvalid, "x")

	assert.True(t, IsInstallation(install))
	assert.False(t, IsInstallation(unsafe))

	assert.True(t, IsUnsafeRuntime(fmt.Errorf("startup: %w", unsafe)))
	assert.False(t, IsUnsafeRuntime(otherConfig))

	assert.True(t, IsPrecondition(precond))
	assert.False(t, IsPrecondition(errors.New("plain")))

	assert.False(t, IsRecoverable(install))
	assert.True(t, IsRecoverable(NewValidationError(ErrCodeConfigInvalid, "x")))
}

func TestWithContext(t *testing.T) {
	err := NewConfigError(ErrCodeUnsafeRuntime, "x").
		WithComponent("bootstrap").
		WithContext("extension", "Zend OPcache")

	assert.Equal(t, "bootstrap", err.Component)
	assert.Equal(t, "Zend OPcache", err.Context["extension"])
}

func TestValidationErrorCollection(t *testing.T) {
	var vec ValidationErrorCollection
	assert.NoError(t, vec.ErrOrNil())
	assert.Equal(t, "no validation errors", vec.Error())

	vec.AddField("log.level", "loud", "unsupported log level")
	assert.True(t, vec.HasErrors())
	assert.Contains(t, vec.Error(), "log.level: unsupported log level")

	vec.AddField("log.format", "xml", "unsupported log format")
	err := vec.ErrOrNil()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed with 2 errors")
	assert.Contains(t, err.Error(), "log.format: unsupported log format")
}

func TestValidationErrorCollectionIsRecoverable(t *testing.T) {
	var vec ValidationErrorCollection
	vec.AddField("log.level", "loud", "unsupported log level")

	err := fmt.Errorf("invalid configuration: %w", vec.ErrOrNil())

	assert.True(t, IsRecoverable(err))
	assert.True(t, errors.Is(err, NewValidationError(ErrCodeConfigInvalid, "other message")))
	assert.False(t, IsRecoverable(fmt.Errorf("wrapped: %w", NewInstallationError(ErrCodeInstallRootUnknown, "x", nil))))
}
