// Package apperrors provides the application's error type: a chainable error
// that carries an HTTP status code, supports wrapping additional causes, and
// stays compatible with errors.Is / errors.As. Handlers build responses from
// the status code and message; callers match on sentinel errors.
package apperrors

// Error is the interface implemented by all application errors. It extends
// the standard error interface with status code management and error
// chaining. Methods return Error so calls can be chained.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error using current as template
	Msg(msg string) Error                  // new error with message, wrapping the original
	MsgErr(msg string, err ...error) Error // new error with message, wrapping extra causes
	Err(err ...error) Error                // attaches additional causes to the current error
	SetStatusCode(int) Error               // sets the HTTP status code
	StatusCode() int                       // returns the HTTP status code
	ErrorAll() string                      // full message including wrapped causes
	UnwrapAll() []error                    // all wrapped causes
}
