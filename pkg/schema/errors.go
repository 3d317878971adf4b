package schema

import "fmt"

// Error codes for structured error reporting.
const (
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeRules      = "RULES_ERROR"
	ErrCodeStore      = "STORE_ERROR"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeExecution  = "EXECUTION_ERROR"
)

// DiagError is the structured error type for all diagcheck operations
// outside the checker itself (the checker reports problems as Result,
// never as Go errors).
type DiagError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Cause   error          `json:"-"`
}

func (e *DiagError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *DiagError) Unwrap() error {
	return e.Cause
}

// NewError creates a new DiagError.
func NewError(code, message string) *DiagError {
	return &DiagError{Code: code, Message: message}
}

// NewErrorf creates a new DiagError with a formatted message.
func NewErrorf(code, format string, args ...any) *DiagError {
	return &DiagError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause attaches an underlying cause.
func (e *DiagError) WithCause(err error) *DiagError {
	e.Cause = err
	return e
}

// WithDetails attaches key-value details.
func (e *DiagError) WithDetails(details map[string]any) *DiagError {
	e.Details = details
	return e
}
