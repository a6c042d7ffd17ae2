package errors

import (
	stderrors "errors"
	"net/http"
)

// Error carries a code, an internal message, and optional metadata for
// message templating. The code decides how the error surfaces to
// clients; the message is for logs only.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors by code so callers can test against sentinel codes
// without comparing messages.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	return ok && e.Code == other.Code
}

// New returns a coded error with an internal message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata returns a coded error whose metadata feeds the localized
// message template.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	err := New(code, message)
	err.Metadata = metadata
	return err
}

// Wrap returns a coded error keeping cause reachable through Unwrap.
func Wrap(code Code, message string, cause error) *Error {
	err := New(code, message)
	err.Cause = cause
	return err
}

// From finds the first coded error in err's chain.
func From(err error) (*Error, bool) {
	var coded *Error
	if stderrors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}

// HTTPStatus maps err to a response status. Anything without a code is
// a 500.
func HTTPStatus(err error) int {
	if coded, ok := From(err); ok {
		return coded.Code.HTTPStatus()
	}
	return http.StatusInternalServerError
}
