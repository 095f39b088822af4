// Package contract builds contract calls, sends them to a node and decodes the results.
package contract

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/evmquery/evmquery/abi"
)

var (
	// ErrArity means the number of arguments differs from the function's inputs.
	ErrArity = errors.New("wrong number of arguments")
	// ErrArgumentType means an argument does not have the shape of its parameter type.
	ErrArgumentType = errors.New("argument does not match parameter type")
)

// ArgumentError reports a caller supplied argument that cannot be used with a function.
type ArgumentError struct {
	Function string
	// Index of the offending argument, -1 for arity errors.
	Index int
	Name  string
	Err   error
	// Cause is the underlying codec error, if any.
	Cause error
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v: %v", e.Function, e.Err, e.Cause)
	}
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("#%d", e.Index)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: argument %s: %v: %v", e.Function, name, e.Err, e.Cause)
	}
	return fmt.Sprintf("%s: argument %s: %v", e.Function, name, e.Err)
}

func (e *ArgumentError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// EncodedCall is the data field of a contract call: the 4 byte selector followed by the
// encoded arguments.
type EncodedCall struct {
	data []byte
}

// Bytes returns a copy of the call data.
func (c EncodedCall) Bytes() []byte {
	return append([]byte(nil), c.data...)
}

// Selector returns the first 4 bytes.
func (c EncodedCall) Selector() [abi.SelectorLength]byte {
	var s [abi.SelectorLength]byte
	copy(s[:], c.data)
	return s
}

// Args returns a copy of the encoded arguments.
func (c EncodedCall) Args() []byte {
	if len(c.data) < abi.SelectorLength {
		return nil
	}
	return append([]byte(nil), c.data[abi.SelectorLength:]...)
}

// Hex returns the 0x prefixed call data.
func (c EncodedCall) Hex() string {
	return hexutil.Encode(c.data)
}

// Build encodes a call of fn with args. Argument count and shapes are checked before anything
// is encoded; values out of range for their type fail with an *abi.EncodeError.
func Build(fn abi.Function, args ...abi.Value) (EncodedCall, error) {
	inputs := fn.Inputs()
	if len(args) != len(inputs) {
		return EncodedCall{}, &ArgumentError{
			Function: fn.Signature(),
			Index:    -1,
			Err:      ErrArity,
			Cause:    fmt.Errorf("have %d, want %d", len(args), len(inputs)),
		}
	}
	for i, in := range inputs {
		if err := abi.Check(in.Type, args[i]); err != nil {
			return EncodedCall{}, &ArgumentError{
				Function: fn.Signature(),
				Index:    i,
				Name:     in.Name,
				Err:      ErrArgumentType,
				Cause:    err,
			}
		}
	}

	encoded, err := abi.EncodeArguments(fn.InputTypes(), args)
	if err != nil {
		return EncodedCall{}, err
	}
	selector := fn.Selector()
	data := make([]byte, 0, len(selector)+len(encoded))
	data = append(data, selector[:]...)
	data = append(data, encoded...)
	return EncodedCall{data: data}, nil
}
