package sosjson

import (
	"errors"
	"fmt"
)

// Encoding errors.
var (
	// ErrUnsupported is returned when an encoder receives an object whose
	// kind has no JSON mapping. Nothing is written in that case.
	ErrUnsupported = errors.New("unsupported input")

	// ErrInvalidObservation is returned when an observation is internally
	// inconsistent, e.g. its type does not match its value.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrInvalidToken is returned when a token of an encoded block cannot
	// be parsed as its field type.
	ErrInvalidToken = errors.New("invalid token")
)

// UnsupportedError names the kind that could not be encoded.
type UnsupportedError struct {
	// Category is what was being encoded, e.g. "geometry".
	Category string
	// Kind is the offending runtime kind.
	Kind string
}

// Error implements the error interface.
func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported %s type: %s", e.Category, e.Kind)
}

// Is matches ErrUnsupported.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

func unsupported(category string, kind any) error {
	return &UnsupportedError{Category: category, Kind: fmt.Sprintf("%v", kind)}
}

func unsupportedType(category string, v any) error {
	return &UnsupportedError{Category: category, Kind: fmt.Sprintf("%T", v)}
}

// TokenError locates an unparsable token in a data block. Row and Column
// are zero based.
type TokenError struct {
	Row    int
	Column int
	Field  string
	Token  string
	Err    error
}

// Error implements the error interface.
func (e *TokenError) Error() string {
	return fmt.Sprintf("row %d, column %d (%s): invalid token %q: %v", e.Row, e.Column, e.Field, e.Token, e.Err)
}

// Unwrap returns the parse error.
func (e *TokenError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidToken.
func (e *TokenError) Is(target error) bool {
	return target == ErrInvalidToken
}
