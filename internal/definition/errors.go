package definition

import (
	"errors"
	"fmt"
)

var (
	ErrMissingType         = errors.New("operation type is required")
	ErrAmbiguousBucket     = errors.New("event value is both a reference list and a bucket table")
	ErrInvalidBucket       = errors.New("event value is neither a reference list nor a bucket table")
	ErrUnknownBucket       = errors.New("unknown event bucket")
	ErrUnknownEvent        = errors.New("unknown event kind")
	ErrUnresolvedReference = errors.New("operation reference not found")
	ErrUnknownTag          = errors.New("tag definition not found")
	ErrInvalidTag          = errors.New("tag definition must be text or a table with a title")
	ErrUnknownKey          = errors.New("unsupported key")
	ErrInvalidValue        = errors.New("invalid value")
	ErrMissingSection      = errors.New("configuration section not found")
)

// UnsupportedTypeError reports an operation whose type has no implementation.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported operation type %q", e.Type)
}

// Error locates a configuration problem.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func pathError(path string, err error) error {
	return &Error{Path: path, Err: err}
}
