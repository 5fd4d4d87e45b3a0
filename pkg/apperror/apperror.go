package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain failure carried to the HTTP layer as a
// (status, machine code, human message) triple. Handlers render it
// verbatim in the error envelope; anything that is not an *Error
// becomes a 500 server_error.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithCause attaches an underlying error for logging without changing
// what the client sees.
func (e *Error) WithCause(err error) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: e.Message, cause: err}
}

// New creates an application error with an explicit HTTP status.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Unauthorized creates a 401 error.
func Unauthorized(code, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

// Forbidden creates a 403 error.
func Forbidden(code, message string) *Error {
	return New(http.StatusForbidden, code, message)
}

// BadRequest creates a 400 error.
func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

// NotFound creates a 404 error.
func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

// Conflict creates a 409 error.
func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// Internal creates a 500 error.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, "server_error", message)
}

// envelope is the wire shape of an error response.
type envelope struct {
	Error *Error `json:"error"`
}

// Payload returns the JSON error envelope for this error.
func (e *Error) Payload() any {
	return envelope{Error: e}
}

// As extracts an *Error from an error chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is an application error with the given code.
func IsCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}
