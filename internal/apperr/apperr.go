// Package apperr classifies errors at the HTTP boundary.
//
// Components return plain Go errors. Handlers wrap them with a Kind once,
// and the Kind decides the status code and whether the message is safe to
// echo back to the caller.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers missing or malformed request input.
	KindValidation
	// KindPassword covers wrong or undiscoverable passwords.
	KindPassword
	// KindProcessing covers library or external tool failures.
	KindProcessing
	// KindResource covers scratch storage allocation and cleanup.
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPassword:
		return "password"
	case KindProcessing:
		return "processing"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error carries a Kind and the message returned to the client.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String() + " error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// ValidationErr keeps the cause so callers can still match it with errors.As.
func ValidationErr(err error) error {
	return &Error{Kind: KindValidation, Err: err}
}

func Password(msg string, err error) error {
	return &Error{Kind: KindPassword, Msg: msg, Err: err}
}

func Processing(msg string, err error) error {
	return &Error{Kind: KindProcessing, Msg: msg, Err: err}
}

func Resource(msg string, err error) error {
	return &Error{Kind: KindResource, Msg: msg, Err: err}
}

// KindOf returns the Kind of the outermost *Error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindPassword:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the client-facing text. Processing errors include the
// underlying cause, matching the service's historical behaviour.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Kind == KindPassword && e.Msg != "" {
		return e.Msg
	}
	return e.Error()
}
