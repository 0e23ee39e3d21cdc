// Package apperr defines the error taxonomy exposed to API clients. Every
// user-visible failure carries a stable machine-readable code; internal
// causes stay wrapped and are never echoed to the caller.
package apperr

import (
	"fmt"
	"net/http"
)

// Code identifies a failure class in API responses.
type Code string

const (
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeNotFound          Code = "NOT_FOUND"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeStorageError      Code = "STORAGE_ERROR"
	CodeCacheError        Code = "CACHE_ERROR"
)

// Error is a taxonomy error. Message is safe to show to clients; the
// wrapped cause is for logs only.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches errors by code so sentinel comparisons via errors.Is work
// across independently constructed instances.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Message == "" || t.Message == e.Message)
}

// InvalidArgument flags malformed or missing input.
func InvalidArgument(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// Unauthorized flags a missing, invalid or expired credential.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NotFound flags an absent resource.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// InsufficientFunds flags a balance mutation rejected by the no-negative
// guard.
func InsufficientFunds(message string) *Error {
	return &Error{Code: CodeInsufficientFunds, Message: message}
}

// Storage wraps a durable-store failure. The raw cause is preserved for
// logging but the client only sees the generic message.
func Storage(cause error) *Error {
	return &Error{Code: CodeStorageError, Message: "storage failure", cause: cause}
}

// Cache wraps a cache-layer failure.
func Cache(cause error) *Error {
	return &Error{Code: CodeCacheError, Message: "cache failure", cause: cause}
}

// HTTPStatus maps a code to its HTTP status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInsufficientFunds:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CodeForStatus is the reverse mapping used when a framework error only
// carries an HTTP status.
func CodeForStatus(status int) Code {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeInsufficientFunds
	default:
		if status < http.StatusInternalServerError {
			return CodeInvalidArgument
		}
		return CodeStorageError
	}
}
