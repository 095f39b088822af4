package abi

import (
	"errors"
	"fmt"
)

// Encode error kinds.
var (
	// ErrOverflow is returned when a value does not fit the declared width of its type.
	ErrOverflow = errors.New("value overflows type")

	// ErrTypeMismatch is returned when a value variant does not match its declared type.
	ErrTypeMismatch = errors.New("value does not match type")
)

// Decode error kinds.
var (
	// ErrTruncated is returned when the layout requires more bytes than the buffer holds.
	ErrTruncated = errors.New("data truncated")

	// ErrArityMismatch is returned when fewer output types are declared than values requested.
	ErrArityMismatch = errors.New("output arity mismatch")

	// ErrMalformed is returned when a word is not a canonical encoding for its type.
	ErrMalformed = errors.New("malformed data")
)

// EncodeError wraps ErrOverflow or ErrTypeMismatch with the offending type.
type EncodeError struct {
	Type   string
	Err    error
	Detail string
}

func (e *EncodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("abi: encode %s: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("abi: encode %s: %v: %s", e.Type, e.Err, e.Detail)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// DecodeError wraps ErrTruncated, ErrArityMismatch or ErrMalformed with the position at which
// decoding failed.
type DecodeError struct {
	Type   string
	Offset int
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("abi: decode %s at offset %d: %v", e.Type, e.Offset, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func overflow(t Type, format string, args ...interface{}) error {
	return &EncodeError{Type: t.String(), Err: ErrOverflow, Detail: fmt.Sprintf(format, args...)}
}

func truncated(t Type, offset int, need, have int) error {
	return &DecodeError{
		Type:   t.String(),
		Offset: offset,
		Err:    ErrTruncated,
		Detail: fmt.Sprintf("need %d bytes, have %d", need, have),
	}
}

func malformed(t Type, offset int, format string, args ...interface{}) error {
	return &DecodeError{Type: t.String(), Offset: offset, Err: ErrMalformed, Detail: fmt.Sprintf(format, args...)}
}
