// Package apperr defines the error kinds surfaced by the evaluation engine.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for callers and transports.
type Kind string

const (
	// KindValidation marks caller-fixable input problems.
	KindValidation Kind = "validation"
	// KindUpstream marks market-data collaborator failures.
	KindUpstream Kind = "upstream"
	// KindInternal marks unexpected defects.
	KindInternal Kind = "internal"
)

// ErrInsufficientData matches, via errors.Is, every error built by
// InsufficientData.
var ErrInsufficientData = errors.New("insufficient data")

// Error is a kind-coded error with a human readable message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error

	sentinel error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Validationf creates a validation error with formatting.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

// InsufficientData is a validation error for a series too short to
// evaluate.
func InsufficientData(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg, sentinel: ErrInsufficientData}
}

// Upstream wraps a market-data failure.
func Upstream(msg string, cause error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Cause: cause}
}

// Internal wraps an unexpected failure.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Cause: cause}
}

// KindOf returns the kind of err. Errors without a kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the user-facing message of err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsUpstream reports whether err is an upstream error.
func IsUpstream(err error) bool {
	return err != nil && KindOf(err) == KindUpstream
}
