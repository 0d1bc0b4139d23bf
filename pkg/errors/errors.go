// Package errors provides structured error types for chart rendering and
// export.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Short user-facing messages ("export unavailable", "nothing to export")
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - MISSING_*: A precondition of an export is not met
//   - NOT_FOUND: Unknown session or resource
//   - EXPORT_FAILED, INTERNAL_ERROR: Failures after validation passed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingCapability, "export unavailable")
//	if errors.Is(err, errors.ErrCodeMissingCapability) {
//	    // Tell the user the feature is not available here
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExportFailed, origErr, "export failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidDataset Code = "INVALID_DATASET"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Export preconditions
	ErrCodeMissingCapability   Code = "MISSING_CAPABILITY"
	ErrCodeMissingRenderTarget Code = "MISSING_RENDER_TARGET"
	ErrCodeMissingDataset      Code = "MISSING_DATASET"

	// Logged, never surfaced to the user
	ErrCodeUnknownUnitPair Code = "UNKNOWN_UNIT_PAIR"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Failures after validation
	ErrCodeExportFailed Code = "EXPORT_FAILED"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// User-facing messages for the export preconditions.
const (
	MsgExportUnavailable = "export unavailable"
	MsgNothingToExport   = "nothing to export"
	MsgExportFailed      = "export failed"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// MissingCapability reports an absent export collaborator.
func MissingCapability(name string) *Error {
	return &Error{Code: ErrCodeMissingCapability, Message: MsgExportUnavailable, Cause: fmt.Errorf("no %s configured", name)}
}

// MissingRenderTarget reports that there is no chart to export.
func MissingRenderTarget() *Error {
	return &Error{Code: ErrCodeMissingRenderTarget, Message: MsgNothingToExport}
}

// ExportFailed wraps a failure that happened while capturing or writing.
func ExportFailed(cause error) *Error {
	return &Error{Code: ErrCodeExportFailed, Message: MsgExportFailed, Cause: cause}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
