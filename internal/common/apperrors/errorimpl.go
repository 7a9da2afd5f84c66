package apperrors

import (
	"errors"
	"strings"
)

// appError is the concrete implementation behind the Error interface.
type appError struct {
	msg        string  // primary error message
	base       error   // base error for errors.Is/As compatibility
	wrapped    []error // additional wrapped causes
	statuscode int     // HTTP status code
}

// New creates a root-level error with the given message. This is the entry
// point for declaring sentinel errors.
func New(msg string) Error {
	return &appError{msg: msg}
}

// Error returns the primary error message.
func (e *appError) Error() string {
	return e.msg
}

// ErrorAll returns the full message including every wrapped cause.
func (e *appError) ErrorAll() string {
	var b strings.Builder
	b.WriteString(e.Error())
	for _, err := range e.wrapped {
		b.WriteString("; ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the base error for errors.Is / errors.As.
func (e *appError) Unwrap() error {
	return e.base
}

// UnwrapAll returns all wrapped causes in the order they were added.
func (e *appError) UnwrapAll() []error {
	return e.wrapped
}

// New derives a fresh error that uses the current error as its template.
// The derived error inherits the status code but carries no wrapped causes.
func (e *appError) New(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		statuscode: e.statuscode,
	}
}

// Msg creates a new error with the given message, wrapping the original.
func (e *appError) Msg(msg string) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, e.wrapped...),
		statuscode: e.statuscode,
	}
}

// MsgErr creates a new error with the given message and wraps the provided
// additional causes.
func (e *appError) MsgErr(msg string, errs ...error) Error {
	return &appError{
		msg:        msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// Err attaches additional causes while keeping the current message.
func (e *appError) Err(errs ...error) Error {
	return &appError{
		msg:        e.msg,
		base:       e,
		wrapped:    append([]error{e}, errs...),
		statuscode: e.statuscode,
	}
}

// SetStatusCode returns a shallow copy with the status code updated.
func (e *appError) SetStatusCode(code int) Error {
	cp := *e
	cp.statuscode = code
	return &cp
}

// StatusCode returns the HTTP status code associated with the error.
func (e *appError) StatusCode() int {
	return e.statuscode
}

// Is reports whether the error matches the target, checking the base error
// and every wrapped cause.
func (e *appError) Is(target error) bool {
	if target == nil {
		return false
	}
	if errors.Is(e.base, target) {
		return true
	}
	for _, err := range e.wrapped {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
