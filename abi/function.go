package abi

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// SelectorLength is the size of a function selector in bytes.
const SelectorLength = 4

// Argument is a named function input.
type Argument struct {
	Name string
	Type Type
}

// Function describes a contract method. It is immutable once constructed.
type Function struct {
	name      string
	inputs    []Argument
	outputs   []Type
	signature string
	selector  [SelectorLength]byte
}

// NewFunction builds a function descriptor and derives its signature and selector.
func NewFunction(name string, inputs []Argument, outputs []Type) (Function, error) {
	if !validIdentifier(name) {
		return Function{}, fmt.Errorf("invalid function name %q", name)
	}
	fn := Function{
		name:    name,
		inputs:  append([]Argument(nil), inputs...),
		outputs: append([]Type(nil), outputs...),
	}
	names := make([]string, len(inputs))
	for i, in := range inputs {
		names[i] = in.Type.String()
	}
	fn.signature = name + "(" + strings.Join(names, ",") + ")"
	copy(fn.selector[:], Keccak256([]byte(fn.signature)))
	return fn, nil
}

// ParseFunction builds a descriptor from a signature such as "balanceOf(address)" and the
// names of its output types. Input names are left empty.
func ParseFunction(signature string, outputs ...string) (Function, error) {
	signature = strings.TrimSpace(signature)
	open := strings.Index(signature, "(")
	if open <= 0 || !strings.HasSuffix(signature, ")") {
		return Function{}, fmt.Errorf("malformed signature %q", signature)
	}
	tuple, err := TypeOf(signature[open:])
	if err != nil {
		return Function{}, fmt.Errorf("signature %q: %w", signature, err)
	}
	inputs := make([]Argument, len(tuple.fields))
	for i, f := range tuple.fields {
		inputs[i] = Argument{Type: f}
	}
	outTypes := make([]Type, len(outputs))
	for i, o := range outputs {
		if outTypes[i], err = TypeOf(o); err != nil {
			return Function{}, fmt.Errorf("output %d: %w", i, err)
		}
	}
	return NewFunction(signature[:open], inputs, outTypes)
}

// MustParseFunction is like ParseFunction but panics on error.
func MustParseFunction(signature string, outputs ...string) Function {
	fn, err := ParseFunction(signature, outputs...)
	if err != nil {
		panic(err)
	}
	return fn
}

// Name returns the function name.
func (fn Function) Name() string {
	return fn.name
}

// Inputs returns a copy of the function inputs.
func (fn Function) Inputs() []Argument {
	return append([]Argument(nil), fn.inputs...)
}

// InputTypes returns the input types in declared order.
func (fn Function) InputTypes() []Type {
	types := make([]Type, len(fn.inputs))
	for i, in := range fn.inputs {
		types[i] = in.Type
	}
	return types
}

// Outputs returns a copy of the output types.
func (fn Function) Outputs() []Type {
	return append([]Type(nil), fn.outputs...)
}

// Signature returns the canonical signature, e.g. "balanceOf(address)".
func (fn Function) Signature() string {
	return fn.signature
}

// Selector returns the 4 byte method identifier.
func (fn Function) Selector() [SelectorLength]byte {
	return fn.selector
}

// String returns the signature followed by the output types.
func (fn Function) String() string {
	names := make([]string, len(fn.outputs))
	for i, o := range fn.outputs {
		names[i] = o.String()
	}
	return fmt.Sprintf("%s returns (%s)", fn.signature, strings.Join(names, ","))
}

// Selector computes the method identifier of a function descriptor.
func Selector(fn Function) [SelectorLength]byte {
	return fn.Selector()
}

// SelectorHex returns the selector as a 0x prefixed hex string.
func SelectorHex(fn Function) string {
	sel := fn.Selector()
	return "0x" + hex.EncodeToString(sel[:])
}

// Keccak256 returns the legacy Keccak-256 hash of data, as used by Ethereum.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		switch {
		case c == '_' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
