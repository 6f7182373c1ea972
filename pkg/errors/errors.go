// Package errors provides structured error types for DemoFit.
//
// All errors in DemoFit should use these types to enable consistent
// error handling, logging, and retry logic across the codebase.
package errors

import (
	"fmt"
)

// ErrorCode represents a unique error identifier for categorization.
type ErrorCode string

// Common error codes used throughout DemoFit.
const (
	// Catalog errors
	CodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"
	CodeCatalogParse       ErrorCode = "CATALOG_PARSE"
	CodeCatalogNotFound    ErrorCode = "CATALOG_NOT_FOUND"

	// Cache errors
	CodeSnapshotLoad ErrorCode = "SNAPSHOT_LOAD"
	CodeSnapshotSave ErrorCode = "SNAPSHOT_SAVE"

	// Infrastructure errors
	CodeStorageError ErrorCode = "STORAGE_ERROR"
	CodePubSubError  ErrorCode = "PUBSUB_ERROR"
	CodeSecretError  ErrorCode = "SECRET_ERROR"

	// General errors
	CodeValidationError ErrorCode = "VALIDATION_ERROR"
	CodeInternalError   ErrorCode = "INTERNAL_ERROR"
	CodeTimeoutError    ErrorCode = "TIMEOUT_ERROR"
)

// DemoFitError is the base error type for all DemoFit errors.
// It provides structured error information including error codes,
// retry semantics, and contextual metadata.
type DemoFitError struct {
	Code      ErrorCode         // Unique error code for categorization
	Message   string            // Human-readable error message
	Cause     error             // Underlying error (if any)
	Retryable bool              // Whether the operation can be retried
	Metadata  map[string]string // Additional context
}

// Error implements the error interface.
func (e *DemoFitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *DemoFitError) Unwrap() error {
	return e.Cause
}

// WithMetadata adds contextual metadata.
func (e *DemoFitError) WithMetadata(key, value string) *DemoFitError {
	meta := make(map[string]string)
	for k, v := range e.Metadata {
		meta[k] = v
	}
	meta[key] = value
	return &DemoFitError{
		Code:      e.Code,
		Message:   e.Message,
		Cause:     e.Cause,
		Retryable: e.Retryable,
		Metadata:  meta,
	}
}

// Pre-defined sentinel errors for common cases.
// Use these with errors.Is() or wrap them with Wrap().
var (
	ErrCatalogUnavailable = &DemoFitError{Code: CodeCatalogUnavailable, Message: "catalog unavailable", Retryable: true}
	ErrCatalogParse       = &DemoFitError{Code: CodeCatalogParse, Message: "catalog response shape mismatch", Retryable: false}
	ErrCatalogNotFound    = &DemoFitError{Code: CodeCatalogNotFound, Message: "exercise not found in catalog", Retryable: false}

	ErrSnapshotLoad = &DemoFitError{Code: CodeSnapshotLoad, Message: "cache snapshot load failed", Retryable: true}
	ErrSnapshotSave = &DemoFitError{Code: CodeSnapshotSave, Message: "cache snapshot save failed", Retryable: true}

	ErrStorageError = &DemoFitError{Code: CodeStorageError, Message: "storage error", Retryable: true}
	ErrPubSubError  = &DemoFitError{Code: CodePubSubError, Message: "pubsub error", Retryable: true}
	ErrSecretError  = &DemoFitError{Code: CodeSecretError, Message: "secret access error", Retryable: true}

	ErrValidation = &DemoFitError{Code: CodeValidationError, Message: "validation error", Retryable: false}
	ErrInternal   = &DemoFitError{Code: CodeInternalError, Message: "internal error", Retryable: false}
	ErrTimeout    = &DemoFitError{Code: CodeTimeoutError, Message: "timeout", Retryable: true}
)

// New creates a new DemoFitError with the given code and message.
func New(code ErrorCode, message string) *DemoFitError {
	return &DemoFitError{
		Code:      code,
		Message:   message,
		Retryable: false,
	}
}

// Wrap wraps an error with a DemoFitError.
func Wrap(cause error, code ErrorCode, message string) *DemoFitError {
	return &DemoFitError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// WrapRetryable wraps an error with a retryable DemoFitError.
func WrapRetryable(cause error, code ErrorCode, message string) *DemoFitError {
	return &DemoFitError{
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if dfErr, ok := err.(*DemoFitError); ok {
		return dfErr.Retryable
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if dfErr, ok := err.(*DemoFitError); ok {
		return dfErr.Code
	}
	return CodeInternalError
}
