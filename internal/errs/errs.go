// Package errs defines the error kinds shared by the service, HTTP and
// client layers. Leaf packages return sentinel errors; the service wraps
// them in *Error so the boundary can pick a status code without string
// matching.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error by how a client should react to it
type Kind string

const (
	KindValidation    Kind = "validation"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindUnprocessable Kind = "unprocessable"
	KindUnavailable   Kind = "unavailable"
	KindInternal      Kind = "internal"
)

// Error is a classified error with the operation that produced it
type Error struct {
	Err  error  // Underlying cause, may be nil
	Kind Kind   // Classification
	Op   string // Operation, e.g. "service.Create"
	Msg  string // Client-facing message
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error
func E(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// Validation returns a KindValidation error with msg
func Validation(op, msg string) *Error {
	return E(KindValidation, op, msg, nil)
}

// Unprocessable returns a KindUnprocessable error with msg
func Unprocessable(op, msg string) *Error {
	return E(KindUnprocessable, op, msg, nil)
}

// KindOf returns the Kind of the first *Error in err's chain.
// Errors that carry no kind are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	return "internal server error"
}

// HTTPStatus maps a Kind to its response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FromStatus maps a response status code back to a Kind
func FromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusUnprocessableEntity:
		return KindUnprocessable
	case http.StatusServiceUnavailable:
		return KindUnavailable
	default:
		return KindInternal
	}
}
