// Package errs defines the error kinds shared by every domain package.
//
// Domain packages declare their own sentinel errors with the constructors below;
// each sentinel unwraps to one kind so HTTP handlers can map it to a status code
// without importing every package.
package errs

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// NotFound returns an error of kind ErrNotFound with the given message.
func NotFound(msg string) error { return &kindError{kind: ErrNotFound, msg: msg} }

// Conflict returns an error of kind ErrConflict with the given message.
func Conflict(msg string) error { return &kindError{kind: ErrConflict, msg: msg} }

// Invalid returns an error of kind ErrInvalidInput with the given message.
func Invalid(msg string) error { return &kindError{kind: ErrInvalidInput, msg: msg} }

// Forbidden returns an error of kind ErrForbidden with the given message.
func Forbidden(msg string) error { return &kindError{kind: ErrForbidden, msg: msg} }

// Unauthorized returns an error of kind ErrUnauthorized with the given message.
func Unauthorized(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }

// Kind reports which shared kind err belongs to, or nil for unclassified errors.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrConflict, ErrInvalidInput, ErrForbidden, ErrUnauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
