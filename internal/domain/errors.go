package domain

import "errors"

// Error classes shared by every layer. Concrete errors wrap one of these so
// the HTTP layer can map them with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
)

// ValidationError carries a client-facing message and classifies as ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *ValidationError) Class() error { return ErrValidation }

func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// ForbiddenError carries a client-facing message and classifies as ErrForbidden.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

func (e *ForbiddenError) Class() error { return ErrForbidden }

func Forbidden(msg string) error {
	return &ForbiddenError{Msg: msg}
}

// Classified is implemented by errors whose own message is safe to show to
// clients. Class reports the error class they belong to.
type Classified interface {
	error
	Class() error
}

// PublicMessage returns the client-facing text of err: the message of the
// first Classified error in the chain, or the bare class message when a
// plain wrapper reaches a class directly. Errors outside every class yield "".
func PublicMessage(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if c, ok := e.(Classified); ok && isClass(c.Class()) {
			return c.Error()
		}
		if isClass(e) {
			return e.Error()
		}
	}
	return ""
}

func isClass(err error) bool {
	switch err {
	case ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation, ErrConflict:
		return true
	}
	return false
}
