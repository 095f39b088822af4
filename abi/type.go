package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant of a Type.
type Kind int

// Kinds of ABI types. Slice is a dynamic-length array (T[]), Array a fixed-length array (T[k]).
const (
	AddressKind Kind = iota
	UintKind
	IntKind
	BoolKind
	FixedBytesKind
	BytesKind
	StringKind
	SliceKind
	ArrayKind
	TupleKind
)

const (
	// WordSize is the size of a single ABI slot in bytes.
	WordSize = 32

	addressLength  = 20
	maxIntBits     = 256
	maxFixedBytes  = 32
	maxNestedDepth = 16

	// maxHeadSize bounds the footprint of a fixed-size array.
	maxHeadSize = 1 << 24
)

// Type is an ABI type. Construct it with TypeOf or one of the Make*Type functions, which
// enforce the size invariants.
type Type struct {
	kind Kind
	// bits for Uint/Int, length for FixedBytes and Array.
	size   int
	elem   *Type
	fields []Type
}

// MakeAddressType returns the `address` type.
func MakeAddressType() Type {
	return Type{kind: AddressKind}
}

// MakeUintType returns `uint<bits>`. bits must be a multiple of 8 in [8, 256].
func MakeUintType(bits int) (Type, error) {
	if err := checkIntBits(bits); err != nil {
		return Type{}, err
	}
	return Type{kind: UintKind, size: bits}, nil
}

// MakeIntType returns `int<bits>`. bits must be a multiple of 8 in [8, 256].
func MakeIntType(bits int) (Type, error) {
	if err := checkIntBits(bits); err != nil {
		return Type{}, err
	}
	return Type{kind: IntKind, size: bits}, nil
}

// MakeBoolType returns the `bool` type.
func MakeBoolType() Type {
	return Type{kind: BoolKind}
}

// MakeFixedBytesType returns `bytes<n>` with n in [1, 32].
func MakeFixedBytesType(n int) (Type, error) {
	if n < 1 || n > maxFixedBytes {
		return Type{}, fmt.Errorf("unsupported bytes length: %d", n)
	}
	return Type{kind: FixedBytesKind, size: n}, nil
}

// MakeBytesType returns the dynamic `bytes` type.
func MakeBytesType() Type {
	return Type{kind: BytesKind}
}

// MakeStringType returns the `string` type.
func MakeStringType() Type {
	return Type{kind: StringKind}
}

// MakeSliceType returns the dynamic array type `elem[]`.
func MakeSliceType(elem Type) Type {
	e := elem
	return Type{kind: SliceKind, elem: &e}
}

// MakeArrayType returns the fixed-length array type `elem[length]`.
func MakeArrayType(elem Type, length int) (Type, error) {
	if length < 0 {
		return Type{}, fmt.Errorf("negative array length: %d", length)
	}
	if length > maxHeadSize/elem.footprint() {
		return Type{}, fmt.Errorf("array length %d too large for %s: head exceeds %d bytes", length, elem, maxHeadSize)
	}
	e := elem
	return Type{kind: ArrayKind, size: length, elem: &e}, nil
}

// MakeTupleType returns the tuple type `(fields...)`.
func MakeTupleType(fields ...Type) Type {
	return Type{kind: TupleKind, fields: append([]Type(nil), fields...)}
}

// MustTypeOf is like TypeOf but panics on error. Intended for package level descriptors.
func MustTypeOf(name string) Type {
	t, err := TypeOf(name)
	if err != nil {
		panic(err)
	}
	return t
}

func checkIntBits(bits int) error {
	if bits < 8 || bits > maxIntBits || bits%8 != 0 {
		return fmt.Errorf("unsupported integer size: %d", bits)
	}
	return nil
}

// Kind returns the variant of the type.
func (t Type) Kind() Kind {
	return t.kind
}

// Size returns the bit width of integer types, the length of bytesN and of fixed arrays, and
// zero otherwise.
func (t Type) Size() int {
	return t.size
}

// Elem returns the element type of a slice or array.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// Fields returns a copy of the tuple field types.
func (t Type) Fields() []Type {
	return append([]Type(nil), t.fields...)
}

// String returns the canonical type name, as used in function signatures.
func (t Type) String() string {
	switch t.kind {
	case AddressKind:
		return "address"
	case UintKind:
		return "uint" + strconv.Itoa(t.size)
	case IntKind:
		return "int" + strconv.Itoa(t.size)
	case BoolKind:
		return "bool"
	case FixedBytesKind:
		return "bytes" + strconv.Itoa(t.size)
	case BytesKind:
		return "bytes"
	case StringKind:
		return "string"
	case SliceKind:
		return t.elem.String() + "[]"
	case ArrayKind:
		return t.elem.String() + "[" + strconv.Itoa(t.size) + "]"
	case TupleKind:
		names := make([]string, len(t.fields))
		for i, f := range t.fields {
			names[i] = f.String()
		}
		return "(" + strings.Join(names, ",") + ")"
	default:
		return fmt.Sprintf("unknown(%d)", t.kind)
	}
}

// Equal reports whether two types are structurally identical.
func (t Type) Equal(other Type) bool {
	return t.String() == other.String()
}

// IsDynamic reports whether the type is encoded out-of-line with the head/tail scheme.
func (t Type) IsDynamic() bool {
	switch t.kind {
	case BytesKind, StringKind, SliceKind:
		return true
	case ArrayKind:
		return t.size > 0 && t.elem.IsDynamic()
	case TupleKind:
		for _, f := range t.fields {
			if f.IsDynamic() {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// headSize is the number of bytes the type takes in the head of its enclosing region.
// footprint is the head size of a static type with every element counted as at least one
// word, so nested arrays of empty elements are bounded as well. Dynamic types count as one
// word.
func (t Type) footprint() int {
	size := WordSize
	switch {
	case t.IsDynamic():
	case t.kind == ArrayKind:
		size = t.size * t.elem.footprint()
	case t.kind == TupleKind:
		size = 0
		for _, f := range t.fields {
			size += f.footprint()
		}
	}
	if size < WordSize {
		return WordSize
	}
	return size
}

func (t Type) headSize() int {
	if t.IsDynamic() {
		return WordSize
	}
	switch t.kind {
	case ArrayKind:
		return t.size * t.elem.headSize()
	case TupleKind:
		size := 0
		for _, f := range t.fields {
			size += f.headSize()
		}
		return size
	default:
		return WordSize
	}
}

// TypeOf parses an ABI type name. `uint` and `int` are accepted as aliases of `uint256` and
// `int256`.
func TypeOf(name string) (Type, error) {
	return parseType(strings.TrimSpace(name), 0)
}

func parseType(name string, depth int) (Type, error) {
	if depth > maxNestedDepth {
		return Type{}, fmt.Errorf("type nested too deeply: %s", name)
	}
	if name == "" {
		return Type{}, fmt.Errorf("empty type name")
	}

	// Array suffixes bind last, so peel the right-most one first.
	if strings.HasSuffix(name, "]") {
		open := strings.LastIndex(name, "[")
		if open <= 0 {
			return Type{}, fmt.Errorf("malformed array type: %s", name)
		}
		elem, err := parseType(name[:open], depth+1)
		if err != nil {
			return Type{}, err
		}
		lengthStr := name[open+1 : len(name)-1]
		if lengthStr == "" {
			return MakeSliceType(elem), nil
		}
		length, err := strconv.Atoi(lengthStr)
		if err != nil || length < 0 {
			return Type{}, fmt.Errorf("malformed array length in %s", name)
		}
		return MakeArrayType(elem, length)
	}

	if strings.HasPrefix(name, "(") {
		if !strings.HasSuffix(name, ")") {
			return Type{}, fmt.Errorf("malformed tuple type: %s", name)
		}
		parts, err := splitTuple(name[1 : len(name)-1])
		if err != nil {
			return Type{}, fmt.Errorf("%s: %w", name, err)
		}
		fields := make([]Type, len(parts))
		for i, p := range parts {
			fields[i], err = parseType(strings.TrimSpace(p), depth+1)
			if err != nil {
				return Type{}, err
			}
		}
		return MakeTupleType(fields...), nil
	}

	switch {
	case name == "address":
		return MakeAddressType(), nil
	case name == "bool":
		return MakeBoolType(), nil
	case name == "string":
		return MakeStringType(), nil
	case name == "bytes":
		return MakeBytesType(), nil
	case name == "uint":
		return MakeUintType(maxIntBits)
	case name == "int":
		return MakeIntType(maxIntBits)
	case strings.HasPrefix(name, "uint"):
		bits, err := parseSize(name, "uint")
		if err != nil {
			return Type{}, err
		}
		return MakeUintType(bits)
	case strings.HasPrefix(name, "int"):
		bits, err := parseSize(name, "int")
		if err != nil {
			return Type{}, err
		}
		return MakeIntType(bits)
	case strings.HasPrefix(name, "bytes"):
		n, err := parseSize(name, "bytes")
		if err != nil {
			return Type{}, err
		}
		return MakeFixedBytesType(n)
	}
	return Type{}, fmt.Errorf("unknown type: %s", name)
}

func parseSize(name, prefix string) (int, error) {
	digits := name[len(prefix):]
	// reject signs and leading zeros so that only canonical names round trip.
	if digits == "" || digits[0] < '1' || digits[0] > '9' {
		return 0, fmt.Errorf("unknown type: %s", name)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("unknown type: %s", name)
	}
	return n, nil
}

// splitTuple splits a tuple body on top-level commas.
func splitTuple(body string) ([]string, error) {
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}
	var parts []string
	depth := 0
	start := 0
	for i, c := range body {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	return append(parts, body[start:]), nil
}
