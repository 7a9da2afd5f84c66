package httpx

import (
	"encoding/json"
	"net/http"
)

// Error represents an HTTP error response. ErrorText is the short machine
// readable cause; Message is the user-facing description.
type Error struct {
	StatusCode int    `json:"-"`
	ErrorText  string `json:"error"`
	Message    string `json:"message,omitempty"`
}

// Send writes the error response to the provided ResponseWriter.
// If the writer is nil, no action is taken.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	body, err := json.Marshal(e)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("unable to encode error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(body)
}

// Error returns the error text.
func (e *Error) Error() string {
	return e.ErrorText
}

// Is reports whether the error matches the target error.
func (e Error) Is(other error) bool {
	return e.Error() == other.Error()
}

func newError(status int, text string, msg ...string) *Error {
	e := &Error{StatusCode: status, ErrorText: text}
	if len(msg) > 0 {
		e.Message = msg[0]
	}
	return e
}

// ErrApplicationError returns a 500 error with an optional message.
func ErrApplicationError(msg ...string) *Error {
	return newError(http.StatusInternalServerError, "internal error", msg...)
}

// ErrMethodNotSupported returns a 405 error.
func ErrMethodNotSupported(msg ...string) *Error {
	return newError(http.StatusMethodNotAllowed, "method not supported", msg...)
}

// ErrUnableToParseRequest returns a 400 error for malformed request bodies.
func ErrUnableToParseRequest(msg ...string) *Error {
	return newError(http.StatusBadRequest, "unable to parse request", msg...)
}

// ErrInvalidRequest returns a 400 error with an optional validation message.
func ErrInvalidRequest(msg ...string) *Error {
	return newError(http.StatusBadRequest, "invalid request", msg...)
}

// ErrUnauthorized returns a 401 error.
func ErrUnauthorized(msg ...string) *Error {
	return newError(http.StatusUnauthorized, "unauthorized", msg...)
}

// ErrRequestTimeout returns a 408 error.
func ErrRequestTimeout(msg ...string) *Error {
	return newError(http.StatusRequestTimeout, "request timeout", msg...)
}

// ErrNotFound returns a 404 error.
func ErrNotFound(msg ...string) *Error {
	return newError(http.StatusNotFound, "not found", msg...)
}
