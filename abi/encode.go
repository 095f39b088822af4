package abi

import (
	"fmt"
	"math/big"
)

var (
	tt256 = new(big.Int).Lsh(big.NewInt(1), maxIntBits)
)

// Encode returns the ABI encoding of v as a single argument of type t: static values take
// one inline slot, dynamic values a head offset followed by their tail. The value must pass
// Check.
func Encode(t Type, v Value) ([]byte, error) {
	return EncodeArguments([]Type{t}, []Value{v})
}

// EncodeArguments encodes values as the fields of a tuple, which is the layout of function
// arguments and return data.
func EncodeArguments(types []Type, values []Value) ([]byte, error) {
	if len(types) != len(values) {
		return nil, &EncodeError{
			Type:   MakeTupleType(types...).String(),
			Err:    ErrTypeMismatch,
			Detail: fmt.Sprintf("%d values for %d types", len(values), len(types)),
		}
	}
	for i, t := range types {
		if err := Check(t, values[i]); err != nil {
			return nil, err
		}
	}
	return encodeSequence(types, values)
}

func encode(t Type, v Value) ([]byte, error) {
	switch t.kind {
	case AddressKind:
		a := v.(AddressValue)
		word := make([]byte, WordSize)
		copy(word[WordSize-addressLength:], a[:])
		return word, nil
	case UintKind:
		x := v.(IntValue).Int
		if x.Sign() < 0 {
			return nil, overflow(t, "negative value %s", x)
		}
		if x.BitLen() > t.size {
			return nil, overflow(t, "%s needs %d bits", x, x.BitLen())
		}
		return intWord(x), nil
	case IntKind:
		x := v.(IntValue).Int
		if !fitsSigned(x, t.size) {
			return nil, overflow(t, "%s out of range", x)
		}
		return intWord(x), nil
	case BoolKind:
		word := make([]byte, WordSize)
		if v.(BoolValue) {
			word[WordSize-1] = 1
		}
		return word, nil
	case FixedBytesKind:
		word := make([]byte, WordSize)
		copy(word, v.(BytesValue))
		return word, nil
	case BytesKind:
		return encodeBytes(v.(BytesValue)), nil
	case StringKind:
		return encodeBytes([]byte(v.(StringValue))), nil
	case SliceKind:
		list := v.(ListValue)
		body, err := encodeSequence(repeat(*t.elem, len(list)), list)
		if err != nil {
			return nil, err
		}
		return append(lengthWord(len(list)), body...), nil
	case ArrayKind, TupleKind:
		list := v.(ListValue)
		types, err := componentTypes(t, len(list))
		if err != nil {
			return nil, &EncodeError{Type: t.String(), Err: ErrTypeMismatch, Detail: err.Error()}
		}
		return encodeSequence(types, list)
	}
	return nil, &EncodeError{Type: t.String(), Err: ErrTypeMismatch, Detail: "unknown type"}
}

// encodeSequence lays out values with the head/tail scheme. Offsets in the head are relative
// to the start of the returned region.
func encodeSequence(types []Type, values []Value) ([]byte, error) {
	headLen := 0
	for _, t := range types {
		headLen += t.headSize()
	}

	head := make([]byte, 0, headLen)
	var tail []byte
	for i, t := range types {
		enc, err := encode(t, values[i])
		if err != nil {
			return nil, err
		}
		if t.IsDynamic() {
			head = append(head, lengthWord(headLen+len(tail))...)
			tail = append(tail, enc...)
		} else {
			head = append(head, enc...)
		}
	}
	return append(head, tail...), nil
}

func encodeBytes(b []byte) []byte {
	out := make([]byte, WordSize+padded(len(b)))
	copy(out, lengthWord(len(b)))
	copy(out[WordSize:], b)
	return out
}

func lengthWord(n int) []byte {
	return intWord(big.NewInt(int64(n)))
}

// intWord returns the 256 bit two's complement representation of x.
func intWord(x *big.Int) []byte {
	word := make([]byte, WordSize)
	if x.Sign() < 0 {
		new(big.Int).Add(tt256, x).FillBytes(word)
		return word
	}
	x.FillBytes(word)
	return word
}

func fitsSigned(x *big.Int, bits int) bool {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	if x.Sign() >= 0 {
		return x.Cmp(limit) < 0
	}
	return x.Cmp(new(big.Int).Neg(limit)) >= 0
}

// padded rounds n up to a multiple of the word size.
func padded(n int) int {
	return (n + WordSize - 1) / WordSize * WordSize
}
