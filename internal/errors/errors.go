package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeInstallation ErrorType = "installation"
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypePrecondition ErrorType = "precondition"
	ErrorTypeValidation   ErrorType = "validation"
)

// Common error codes.
const (
	ErrCodeVersionUnreadable  = "ERR_VERSION_UNREADABLE"
	ErrCodeInstallRootUnknown = "ERR_INSTALL_ROOT_UNKNOWN"
	ErrCodeUnsafeRuntime      = "ERR_UNSAFE_RUNTIME"
	ErrCodeCacheFolderUnset   = "ERR_CACHE_FOLDER_UNSET"
	ErrCodeTimezoneInvalid    = "ERR_TIMEZONE_INVALID"
	ErrCodeConfigInvalid      = "ERR_CONFIG_INVALID"
)

// Error is a structured error type with context.
type Error struct {
	Type        ErrorType
	Code        string
	Message     string
	Suggestion  string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	if e.Suggestion != "" {
		result += " (" + e.Suggestion + ")"
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same type and code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *Error) WithComponent(component string) *Error {
	e.Component = component

	return e
}

// WithSuggestion attaches an operator-facing hint on how to fix the error.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion

	return e
}

// NewInstallationError creates an installation-integrity error.
func NewInstallationError(code, message string, cause error) *Error {
	return &Error{
		Type:        ErrorTypeInstallation,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *Error {
	return &Error{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewPreconditionError creates an error for a call made before its
// prerequisites were wired.
func NewPreconditionError(code, message string) *Error {
	return &Error{
		Type:        ErrorTypePrecondition,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *Error {
	return &Error{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Recoverable
	}

	return false
}

// IsInstallation reports whether err is an installation-integrity error.
func IsInstallation(err error) bool {
	return isType(err, ErrorTypeInstallation)
}

// IsUnsafeRuntime reports whether err rejects the runtime configuration.
func IsUnsafeRuntime(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeConfig && e.Code == ErrCodeUnsafeRuntime
	}

	return false
}

// IsPrecondition reports whether err is a precondition violation.
func IsPrecondition(err error) bool {
	return isType(err, ErrorTypePrecondition)
}

func isType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}

	return false
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []*Error
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	if len(vec.Errors) == 0 {
		return "no validation errors"
	}
	if len(vec.Errors) == 1 {
		return vec.Errors[0].Error()
	}

	msgs := make([]string, 0, len(vec.Errors))
	for _, err := range vec.Errors {
		msgs = append(msgs, err.Message)
	}

	return fmt.Sprintf("validation failed with %d errors: %s", len(vec.Errors), strings.Join(msgs, "; "))
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(field string, value interface{}, message string) {
	vec.Errors = append(vec.Errors,
		NewValidationError(ErrCodeConfigInvalid, fmt.Sprintf("%s: %s", field, message)).
			WithContext("field", field).
			WithContext("value", value))
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (vec *ValidationErrorCollection) Unwrap() []error {
	errs := make([]error, len(vec.Errors))
	for i, err := range vec.Errors {
		errs[i] = err
	}

	return errs
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// ErrOrNil returns the collection as an error, or nil when it is empty.
func (vec *ValidationErrorCollection) ErrOrNil() error {
	if !vec.HasErrors() {
		return nil
	}

	return vec
}
