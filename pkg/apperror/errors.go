// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details. Every code
// belongs to a pipeline stage so callers can report where a run failed.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Input
	CodeIncompleteInput ErrorCode = "INCOMPLETE_INPUT"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// Workbook loading
	CodeLoadFailed ErrorCode = "LOAD_FAILED"

	// Cell parsing
	CodeMalformedCell ErrorCode = "MALFORMED_CELL"

	// Workbook layout
	CodeMissingSheet  ErrorCode = "MISSING_SHEET"
	CodeMissingColumn ErrorCode = "MISSING_COLUMN"

	// Output
	CodeRenderFailed ErrorCode = "RENDER_FAILED"

	// General
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Stage names the pipeline step an error code belongs to.
type Stage string

const (
	StageInput    Stage = "input"
	StageLoad     Stage = "load"
	StageParse    Stage = "parse"
	StageSchema   Stage = "schema"
	StageRender   Stage = "render"
	StageInternal Stage = "internal"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field names the input (workbook, column) that caused the error.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface, returning a string representation of the error.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Stage maps the error code to the pipeline stage it was raised in.
func (e *Error) Stage() Stage {
	switch e.Code {
	case CodeIncompleteInput, CodeInvalidArgument:
		return StageInput
	case CodeLoadFailed:
		return StageLoad
	case CodeMalformedCell:
		return StageParse
	case CodeMissingSheet, CodeMissingColumn:
		return StageSchema
	case CodeRenderFailed:
		return StageRender
	default:
		return StageInternal
	}
}

// New creates a new application error with the given code and message.
// The default severity is SeverityError.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// NewWithField creates a new application error with the given code, message, and field.
func NewWithField(code ErrorCode, message, field string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Field:    field,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// Wrap creates a new application error that wraps an existing error,
// providing additional context with a code and message.
func Wrap(cause error, code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Cause:    cause,
		Details:  make(map[string]any),
		Severity: SeverityError,
	}
}

// WithDetails adds a key-value pair to the error's details map and returns the modified error.
func (e *Error) WithDetails(key string, value any) *Error {
	e.Details[key] = value
	return e
}

// WithField sets the field associated with the error and returns the modified error.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithSeverity sets the severity level of the error and returns the modified error.
func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Is checks if the given error is an application error with a matching ErrorCode.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code extracts the ErrorCode from an error. If the error is not an *Error,
// it returns CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// StageOf returns the stage of an application error, StageInternal otherwise.
func StageOf(err error) Stage {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Stage()
	}
	return StageInternal
}

// SeverityOf returns the severity of an application error, SeverityError otherwise.
func SeverityOf(err error) Severity {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity
	}
	return SeverityError
}

// UserMessage renders an error as a single line suitable for showing to
// the person who supplied the workbooks: "<stage>: <message> (k=v, ...)".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return fmt.Sprintf("%s: %s", StageInternal, err.Error())
	}

	var sb strings.Builder
	sb.WriteString(string(appErr.Stage()))
	sb.WriteString(": ")
	sb.WriteString(appErr.Message)

	if len(appErr.Details) > 0 {
		keys := make([]string, 0, len(appErr.Details))
		for k := range appErr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, appErr.Details[k]))
		}
		sb.WriteString(" (")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString(")")
	}

	return sb.String()
}
