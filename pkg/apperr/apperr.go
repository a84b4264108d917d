// Package apperr defines the error kinds shared by every feature package.
//
// Feature packages declare their own sentinel errors wrapping one of these
// kinds, so callers can match either the specific error or its kind:
//
//	var ErrEventNotFound = apperr.New(apperr.ErrNotFound, "event not found")
//	errors.Is(err, apperr.ErrNotFound) // true
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation error")
	ErrInvalidTimeRange = errors.New("invalid time range")
	ErrInvalidOperation = errors.New("invalid operation")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns a sentinel error with the given message that matches kind via errors.Is.
func New(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Validationf builds an ad-hoc validation error.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

// Kind reports which error kind err belongs to, or nil if none.
func Kind(err error) error {
	for _, k := range []error{ErrNotFound, ErrPermissionDenied, ErrValidation, ErrInvalidTimeRange, ErrInvalidOperation} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
