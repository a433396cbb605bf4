package clink

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes backend errors.
type ErrorCode string

const (
	// ErrCodeUnavailable indicates the clink binary cannot be found.
	ErrCodeUnavailable ErrorCode = "BACKEND_UNAVAILABLE"

	// ErrCodeQueryFailed indicates the backend reported a fault.
	ErrCodeQueryFailed ErrorCode = "QUERY_FAILED"

	// ErrCodeParseFailure indicates the backend succeeded but returned
	// output with no recoverable triple.
	ErrCodeParseFailure ErrorCode = "PARSE_FAILURE"
)

// Error represents a failure talking to the clink backend.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Query is the LiNo query that was being executed, if any.
	Query string

	// Stderr carries the backend's diagnostic output, if any.
	Stderr string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Query != "" {
		msg += fmt.Sprintf(" (query=%s)", e.Query)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf(": %s", e.Stderr)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnavailable reports whether err is a BACKEND_UNAVAILABLE error.
// Uses errors.As to handle wrapped errors.
func IsUnavailable(err error) bool {
	return hasCode(err, ErrCodeUnavailable)
}

// IsQueryFailed reports whether err is a QUERY_FAILED error.
func IsQueryFailed(err error) bool {
	return hasCode(err, ErrCodeQueryFailed)
}

// IsParseFailure reports whether err is a PARSE_FAILURE error.
func IsParseFailure(err error) bool {
	return hasCode(err, ErrCodeParseFailure)
}

func hasCode(err error, code ErrorCode) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
