package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries an HTTP status and a stable machine code alongside the cause.
// Message, when set, is what clients see instead of Err.Error().
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// WithMessage builds an Error whose client-facing text is msg.
func WithMessage(status int, code, msg string, err error) *Error {
	return &Error{Status: status, Code: code, Message: msg, Err: err}
}

func BadRequest(code, msg string) *Error {
	return WithMessage(http.StatusBadRequest, code, msg, nil)
}

func Internal(msg string, err error) *Error {
	return WithMessage(http.StatusInternalServerError, "internal_error", msg, err)
}

// As unwraps err into an *Error when one is present in the chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}
