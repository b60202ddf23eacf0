package args

import (
	"errors"
	"fmt"
)

// Kind names the type a field was being decoded into.
type Kind string

const (
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindDuration Kind = "duration"
	KindEnum     Kind = "enum"
)

// DecodeError reports a present field that could not be parsed.
type DecodeError struct {
	Index int
	Raw   string
	Kind  Kind
	Err   error
}

func newDecodeError(index int, raw string, kind Kind, err error) *DecodeError {
	return &DecodeError{Index: index, Raw: raw, Kind: kind, Err: err}
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("argument %d: cannot decode %q as %s: %v", e.Index, e.Raw, e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecodeError reports whether err wraps a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
