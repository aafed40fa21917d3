// Package apperr defines the error kinds shared by every service layer.
//
// Business-rule failures (validation, unavailable dates, not found or illegal
// state) are deterministic and must not be retried verbatim. Dependency
// failures come from the store, cache or broker and may be retried.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation             = errors.New("validation error")
	ErrDatesUnavailable       = errors.New("dates unavailable")
	ErrNotFoundOrIllegalState = errors.New("not found or illegal state")
	ErrDependencyFailure      = errors.New("dependency failure")
)

// Error carries a kind, a caller-facing message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Unavailable(format string, args ...interface{}) error {
	return &Error{Kind: ErrDatesUnavailable, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: ErrNotFoundOrIllegalState, Message: fmt.Sprintf(format, args...)}
}

// Dependency wraps an infrastructure error.
func Dependency(err error, format string, args ...interface{}) error {
	return &Error{Kind: ErrDependencyFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// Retryable reports whether the caller may retry the same request.
func Retryable(err error) bool {
	return errors.Is(err, ErrDependencyFailure)
}

// Message returns the caller-facing message of err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
