// Package validate holds the stateless checks applied to uAP configuration
// values before they are encoded into a command buffer.
//
// Every check reports failures as an *Error whose Kind names the violated
// rule, so callers can match with errors.Is against the exported kinds.
package validate

import (
	"fmt"

	"github.com/pkg/errors"
)

// Failure kinds.
var (
	ErrInvalidRate    = errors.New("invalid rate")
	ErrMandatoryRate  = errors.New("missing mandatory rate")
	ErrInvalidChannel = errors.New("invalid channel")
	ErrCipherMismatch = errors.New("invalid cipher combination")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrCountMismatch  = errors.New("count mismatch")
	ErrOutOfRange     = errors.New("value out of range")
	ErrInvalidKey     = errors.New("invalid key")
	ErrInvalidMAC     = errors.New("invalid mac address")
	ErrInvalidValue   = errors.New("invalid value")
)

// An Error describes which rule a value violated.
type Error struct {
	Kind   error
	Field  string
	Detail string
}

// Error implements error.
func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %v: %s", e.Field, e.Kind, e.Detail)
}

// Unwrap returns the failure kind.
func (e *Error) Unwrap() error { return e.Kind }

func fail(kind error, field, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Field: field, Detail: fmt.Sprintf(format, args...)}
}
