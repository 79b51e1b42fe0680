// Package errors provides the standardized error taxonomy for the ingest and
// query paths and its mapping onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// ErrCodeValidationFailed marks a malformed ingestion record. The first
	// invalid record aborts the whole batch; there is no partial success.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// ErrCodeProjectNotFound is a client-visible condition, not a server
	// fault: the question referenced a project name with no stored row.
	ErrCodeProjectNotFound ErrorCode = "PROJECT_NOT_FOUND"

	// ErrCodeUpstreamServiceFailed marks a failed generative fallback call.
	// It is surfaced as-is, never retried and never swallowed.
	ErrCodeUpstreamServiceFailed ErrorCode = "UPSTREAM_SERVICE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeInternalError            ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError creates a non-retryable ingestion error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Invalid upload record",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProjectNotFoundError creates a non-retryable not-found error. The
// message is the exact client-facing string for the query response.
func NewProjectNotFoundError(projectName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProjectNotFound,
		Message:   fmt.Sprintf("Project '%s' not found.", projectName),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamServiceError wraps a failed generative fallback call.
func NewUpstreamServiceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamServiceFailed,
		Message:   "Generative service request failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a storage access error tagged with the
// operation that failed.
func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError creates a generic server fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternalError,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Normalize ensures any error becomes a StandardError; unrecognized errors
// map to INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}

// HTTPStatus maps an error code to the status returned by the transport.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeProjectNotFound:
		return http.StatusNotFound
	case ErrCodeUpstreamServiceFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
