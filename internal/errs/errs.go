// Package errs defines the closed set of error kinds surfaced while handling
// an interaction. Every kind stops at the dispatch boundary.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies an error kind.
type Code string

const (
	OptionResolution     Code = "OPTION_RESOLUTION"
	Fetch                Code = "FETCH"
	Recognition          Code = "RECOGNITION"
	ComponentResolution  Code = "COMPONENT_RESOLUTION"
	ModalFieldResolution Code = "MODAL_FIELD_RESOLUTION"
	InvalidInput         Code = "INVALID_INPUT"
	Config               Code = "CONFIG"
	Internal             Code = "INTERNAL"
)

// Error is a structured error carrying a kind and optional details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetail attaches a key/value pair and returns the same error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. Returns nil when err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps err with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// CodeOf returns the code of the first *Error in err's chain, or Internal
// when there is none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// IsCode reports whether err's chain contains an *Error with code.
func IsCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Detail returns a detail value from the first *Error in err's chain.
func Detail(err error, key string) (any, bool) {
	var e *Error
	if !errors.As(err, &e) || e.Details == nil {
		return nil, false
	}
	v, ok := e.Details[key]
	return v, ok
}
