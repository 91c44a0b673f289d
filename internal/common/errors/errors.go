// Package errors provides the standardized error taxonomy for the assistant.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Dispatch outcomes. These are carried as ActionResult reasons and never escape a query.
const (
	ErrCodeMissingIdentifier    ErrorCode = "MISSING_IDENTIFIER"
	ErrCodeMissingRequiredField ErrorCode = "MISSING_REQUIRED_FIELD"
	ErrCodeTransportError       ErrorCode = "TRANSPORT_ERROR"
	ErrCodeNotImplemented       ErrorCode = "NOT_IMPLEMENTED"
	ErrCodeNoMatch              ErrorCode = "NO_MATCH"
)

// Infrastructure and inbound surface.
const (
	ErrCodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	ErrCodeSessionNotFound          ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeGenerationFailed         ErrorCode = "GENERATION_FAILED"
	ErrCodeGenerationTimeout        ErrorCode = "GENERATION_TIMEOUT"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying failure, e.g. context.DeadlineExceeded.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewMissingIdentifierError is returned by get handlers when no key or id could be extracted.
func NewMissingIdentifierError(entity string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingIdentifier,
		Message:   "Identifier not found in query",
		Details:   fmt.Sprintf("entity: %s", entity),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewMissingRequiredFieldError(entity, field string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingRequiredField,
		Message:   fmt.Sprintf("Required field %q is missing", field),
		Details:   fmt.Sprintf("entity: %s, field: %s", entity, field),
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError wraps any failure talking to the tracking API, timeouts included.
func NewTransportError(operation string, err error) *StandardError {
	details := "unknown transport failure"
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeTransportError,
		Message:   "Tracking API request failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, details),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewNotImplementedError(entity, verb string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotImplemented,
		Message:   "Operation not supported",
		Details:   fmt.Sprintf("entity: %s, verb: %s", entity, verb),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoMatchError signals that search or generation produced nothing usable.
func NewNoMatchError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoMatch,
		Message:   "No usable result",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidRequestError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRequest,
		Message:   "Invalid request",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Conversation session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSearchQueryFailedError covers transport, status and decode failures of the documentation index.
func NewSearchQueryFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   "Documentation search failed",
		Details:   fmt.Sprintf("query: %s, error: %s", query, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Response generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewGenerationTimeoutError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeGenerationTimeout,
		Message:   "Response generation timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewDatabaseConnectionFailedError names the backend that could not be reached at startup.
func NewDatabaseConnectionFailedError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   fmt.Sprintf("backend: %s, error: %s", backend, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"backend": backend},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseInsertFailed,
		Message:   "Database insert error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// IsRetryableErrorCode reports whether a code describes a transient failure.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTransportError,
		ErrCodeSearchQueryFailed,
		ErrCodeGenerationFailed,
		ErrCodeGenerationTimeout,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "MISSING_") || code == ErrCodeNotImplemented:
		return "DISPATCH"
	case code == ErrCodeTransportError:
		return "TRANSPORT"
	case strings.Contains(codeStr, "SEARCH") || code == ErrCodeNoMatch:
		return "SEARCH"
	case strings.Contains(codeStr, "GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "SESSION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
