package config

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnterminatedBlock is returned when a file ends inside a block.
	ErrUnterminatedBlock = errors.New("block not closed")

	// ErrUnknownKey is returned for a key no block accepts.
	ErrUnknownKey = errors.New("unknown key")

	// ErrSyntax is returned for malformed lines.
	ErrSyntax = errors.New("syntax error")
)

// A FieldError reports the key and line that made a parse fail.
type FieldError struct {
	Key  string
	Line int
	Err  error
}

// Error implements error.
func (e *FieldError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(key string, line int, err error) error {
	return &FieldError{Key: key, Line: line, Err: err}
}
