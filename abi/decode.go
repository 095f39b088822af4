package abi

import (
	"math/big"
)

// Decode reads a value of type t whose head starts at offset in data. data is the enclosing
// encoding region: offsets of dynamic values are resolved relative to its start. The returned
// offset points just past the head of the value, where the next sibling head begins.
func Decode(t Type, data []byte, offset int) (Value, int, error) {
	if offset < 0 {
		return nil, offset, malformed(t, offset, "negative offset")
	}
	v, err := decodeAt(t, data, offset, 0)
	if err != nil {
		return nil, offset, err
	}
	return v, offset + t.headSize(), nil
}

// DecodeArguments decodes data laid out as a tuple of types, the layout of function arguments
// and return data.
func DecodeArguments(types []Type, data []byte) ([]Value, error) {
	values := make([]Value, len(types))
	offset := 0
	for i, t := range types {
		var err error
		values[i], offset, err = Decode(t, data, offset)
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

// decodeAt decodes the value whose head is at pos within region.
func decodeAt(t Type, region []byte, pos int, depth int) (Value, error) {
	if depth > maxNestedDepth {
		return nil, malformed(t, pos, "nested too deeply")
	}
	if !t.IsDynamic() {
		return decodeContent(t, region, pos, depth)
	}
	offset, err := readLength(t, region, pos)
	if err != nil {
		return nil, err
	}
	return decodeContent(t, region[offset:], 0, depth)
}

// decodeContent decodes the body of a value starting at pos. For dynamic types pos is the
// start of the tail.
func decodeContent(t Type, region []byte, pos int, depth int) (Value, error) {
	switch t.kind {
	case AddressKind:
		word, err := readWord(t, region, pos)
		if err != nil {
			return nil, err
		}
		if !allZero(word[:WordSize-addressLength]) {
			return nil, malformed(t, pos, "dirty high bytes")
		}
		var a AddressValue
		copy(a[:], word[WordSize-addressLength:])
		return a, nil
	case UintKind:
		word, err := readWord(t, region, pos)
		if err != nil {
			return nil, err
		}
		x := new(big.Int).SetBytes(word)
		if x.BitLen() > t.size {
			return nil, malformed(t, pos, "value exceeds %d bits", t.size)
		}
		return IntValue{Int: x}, nil
	case IntKind:
		word, err := readWord(t, region, pos)
		if err != nil {
			return nil, err
		}
		x := new(big.Int).SetBytes(word)
		if word[0]&0x80 != 0 {
			x.Sub(x, tt256)
		}
		if !fitsSigned(x, t.size) {
			return nil, malformed(t, pos, "value exceeds %d bits", t.size)
		}
		return IntValue{Int: x}, nil
	case BoolKind:
		word, err := readWord(t, region, pos)
		if err != nil {
			return nil, err
		}
		if !allZero(word[:WordSize-1]) || word[WordSize-1] > 1 {
			return nil, malformed(t, pos, "invalid bool")
		}
		return BoolValue(word[WordSize-1] == 1), nil
	case FixedBytesKind:
		word, err := readWord(t, region, pos)
		if err != nil {
			return nil, err
		}
		if !allZero(word[t.size:]) {
			return nil, malformed(t, pos, "dirty padding")
		}
		return BytesValue(append([]byte(nil), word[:t.size]...)), nil
	case BytesKind, StringKind:
		b, err := readBytes(t, region, pos)
		if err != nil {
			return nil, err
		}
		if t.kind == StringKind {
			return StringValue(b), nil
		}
		return BytesValue(b), nil
	case SliceKind:
		n, err := readLength(t, region, pos)
		if err != nil {
			return nil, err
		}
		// bound the count by the buffer so a hostile length cannot force a huge allocation.
		if n > len(region)-pos-WordSize {
			return nil, truncated(t, pos, n, len(region)-pos-WordSize)
		}
		return decodeSequence(repeat(*t.elem, n), region[pos+WordSize:], depth)
	case ArrayKind, TupleKind:
		if pos > len(region) {
			return nil, truncated(t, pos, pos, len(region))
		}
		types := t.fields
		if t.kind == ArrayKind {
			if head := t.size * t.elem.headSize(); head > len(region)-pos {
				return nil, truncated(t, pos, head, len(region)-pos)
			}
			types = repeat(*t.elem, t.size)
		}
		return decodeSequence(types, region[pos:], depth)
	}
	return nil, malformed(t, pos, "unknown type")
}

func decodeSequence(types []Type, region []byte, depth int) (Value, error) {
	values := make(ListValue, len(types))
	pos := 0
	for i, t := range types {
		v, err := decodeAt(t, region, pos, depth+1)
		if err != nil {
			return nil, err
		}
		values[i] = v
		pos += t.headSize()
	}
	return values, nil
}

func readWord(t Type, region []byte, pos int) ([]byte, error) {
	if pos < 0 || pos+WordSize > len(region) {
		return nil, truncated(t, pos, pos+WordSize, len(region))
	}
	return region[pos : pos+WordSize], nil
}

// readLength reads a word holding an offset or a length and checks that it addresses a
// position inside region.
func readLength(t Type, region []byte, pos int) (int, error) {
	word, err := readWord(t, region, pos)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).SetBytes(word)
	if !n.IsInt64() || n.Int64() > int64(len(region)) {
		return 0, truncated(t, pos, len(region)+1, len(region))
	}
	return int(n.Int64()), nil
}

// readBytes reads a length-prefixed byte string, including its zero padding.
func readBytes(t Type, region []byte, pos int) ([]byte, error) {
	n, err := readLength(t, region, pos)
	if err != nil {
		return nil, err
	}
	start := pos + WordSize
	end := start + padded(n)
	if end > len(region) {
		return nil, truncated(t, pos, end, len(region))
	}
	if !allZero(region[start+n : end]) {
		return nil, malformed(t, pos, "dirty padding")
	}
	return append([]byte{}, region[start:start+n]...), nil
}

func allZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
