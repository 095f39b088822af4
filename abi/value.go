package abi

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Value is a concrete ABI value. The set of implementations is closed:
// AddressValue, IntValue, BoolValue, BytesValue, StringValue and ListValue.
type Value interface {
	abiValue()
}

// AddressValue holds a 20 byte account or contract address.
type AddressValue common.Address

// IntValue holds an arbitrary precision integer for uintN and intN types.
type IntValue struct {
	Int *big.Int
}

// BoolValue holds a bool.
type BoolValue bool

// BytesValue holds the contents of bytes and bytesN types.
type BytesValue []byte

// StringValue holds a string.
type StringValue string

// ListValue holds the elements of slices, arrays and tuples in declared order.
type ListValue []Value

func (AddressValue) abiValue() {}
func (IntValue) abiValue()     {}
func (BoolValue) abiValue()    {}
func (BytesValue) abiValue()   {}
func (StringValue) abiValue()  {}
func (ListValue) abiValue()    {}

// Address returns the value as a go-ethereum address.
func (v AddressValue) Address() common.Address {
	return common.Address(v)
}

// String returns the hex form of the address.
func (v AddressValue) String() string {
	return common.Address(v).Hex()
}

// String returns the decimal form of the integer.
func (v IntValue) String() string {
	if v.Int == nil {
		return "<nil>"
	}
	return v.Int.String()
}

// Addr wraps an address.
func Addr(a common.Address) AddressValue {
	return AddressValue(a)
}

// BigInt wraps a big integer. The integer is copied.
func BigInt(x *big.Int) IntValue {
	return IntValue{Int: new(big.Int).Set(x)}
}

// Uint64 wraps an unsigned integer.
func Uint64(x uint64) IntValue {
	return IntValue{Int: new(big.Int).SetUint64(x)}
}

// Int64 wraps a signed integer.
func Int64(x int64) IntValue {
	return IntValue{Int: big.NewInt(x)}
}

// List wraps values into a ListValue.
func List(values ...Value) ListValue {
	return ListValue(values)
}

// Check verifies that the variant of v structurally matches t: the right variant at every
// level and the declared length for arrays and tuples. Range checks happen in Encode.
func Check(t Type, v Value) error {
	if err := check(t, v); err != nil {
		return &EncodeError{Type: t.String(), Err: ErrTypeMismatch, Detail: err.Error()}
	}
	return nil
}

func check(t Type, v Value) error {
	switch t.kind {
	case AddressKind:
		if _, ok := v.(AddressValue); !ok {
			return mismatch(t, v)
		}
	case UintKind, IntKind:
		iv, ok := v.(IntValue)
		if !ok {
			return mismatch(t, v)
		}
		if iv.Int == nil {
			return fmt.Errorf("nil integer for %s", t)
		}
	case BoolKind:
		if _, ok := v.(BoolValue); !ok {
			return mismatch(t, v)
		}
	case FixedBytesKind:
		b, ok := v.(BytesValue)
		if !ok {
			return mismatch(t, v)
		}
		if len(b) != t.size {
			return fmt.Errorf("%s requires %d bytes, got %d", t, t.size, len(b))
		}
	case BytesKind:
		if _, ok := v.(BytesValue); !ok {
			return mismatch(t, v)
		}
	case StringKind:
		if _, ok := v.(StringValue); !ok {
			return mismatch(t, v)
		}
	case SliceKind, ArrayKind, TupleKind:
		list, ok := v.(ListValue)
		if !ok {
			return mismatch(t, v)
		}
		types, err := componentTypes(t, len(list))
		if err != nil {
			return err
		}
		for i, elem := range list {
			if err := check(types[i], elem); err != nil {
				return fmt.Errorf("%s[%d]: %w", t, i, err)
			}
		}
	default:
		return fmt.Errorf("unknown type kind %d", t.kind)
	}
	return nil
}

// componentTypes returns the per-element types of a composite type holding n elements.
func componentTypes(t Type, n int) ([]Type, error) {
	switch t.kind {
	case SliceKind:
		return repeat(*t.elem, n), nil
	case ArrayKind:
		if n != t.size {
			return nil, fmt.Errorf("%s requires %d elements, got %d", t, t.size, n)
		}
		return repeat(*t.elem, n), nil
	case TupleKind:
		if n != len(t.fields) {
			return nil, fmt.Errorf("%s requires %d fields, got %d", t, len(t.fields), n)
		}
		return t.fields, nil
	}
	return nil, fmt.Errorf("%s is not a composite type", t)
}

func repeat(t Type, n int) []Type {
	types := make([]Type, n)
	for i := range types {
		types[i] = t
	}
	return types
}

func mismatch(t Type, v Value) error {
	return fmt.Errorf("cannot use %T as %s", v, t)
}

// Equal reports whether two values hold the same data.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case AddressValue:
		bv, ok := b.(AddressValue)
		return ok && av == bv
	case IntValue:
		bv, ok := b.(IntValue)
		if !ok || av.Int == nil || bv.Int == nil {
			return ok && av.Int == nil && bv.Int == nil
		}
		return av.Int.Cmp(bv.Int) == 0
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case BytesValue:
		bv, ok := b.(BytesValue)
		return ok && bytes.Equal(av, bv)
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	case ListValue:
		bv, ok := b.(ListValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	}
	return false
}
