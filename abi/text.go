package abi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseValue reads the text form of a value of type t:
//   - address: 0x prefixed hex
//   - integers: decimal, or hex with a 0x prefix
//   - bool: true or false
//   - bytes and fixed bytes: 0x prefixed hex
//   - string: taken verbatim
//   - slices, arrays and tuples: a JSON array whose elements use the forms above
func ParseValue(t Type, s string) (Value, error) {
	switch t.kind {
	case AddressKind:
		if !common.IsHexAddress(s) {
			return nil, fmt.Errorf("invalid address %q", s)
		}
		return Addr(common.HexToAddress(s)), nil
	case UintKind, IntKind:
		x, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
		if !ok {
			return nil, fmt.Errorf("invalid %s %q", t, s)
		}
		return IntValue{Int: x}, nil
	case BoolKind:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q", s)
		}
		return BoolValue(b), nil
	case FixedBytesKind, BytesKind:
		b, err := hexutil.Decode(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", t, s, err)
		}
		return BytesValue(b), nil
	case StringKind:
		return StringValue(s), nil
	case SliceKind, ArrayKind, TupleKind:
		var raw []json.RawMessage
		if err := json.Unmarshal([]byte(s), &raw); err != nil {
			return nil, fmt.Errorf("invalid %s %q: expected a JSON array", t, s)
		}
		types, err := componentTypes(t, len(raw))
		if err != nil {
			return nil, err
		}
		values := make(ListValue, len(raw))
		for i, r := range raw {
			text := string(r)
			var str string
			if json.Unmarshal(r, &str) == nil {
				text = str
			}
			if values[i], err = ParseValue(types[i], text); err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
		}
		return values, nil
	}
	return nil, fmt.Errorf("unsupported type %s", t)
}

// FormatValue renders v in the text form accepted by ParseValue.
func FormatValue(v Value) string {
	switch v := v.(type) {
	case AddressValue:
		return v.String()
	case IntValue:
		return v.String()
	case BoolValue:
		return strconv.FormatBool(bool(v))
	case BytesValue:
		return hexutil.Encode(v)
	case StringValue:
		return string(v)
	case ListValue:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatElement(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return fmt.Sprintf("%v", v)
}

func formatElement(v Value) string {
	switch v.(type) {
	case ListValue, IntValue, BoolValue:
		return FormatValue(v)
	}
	return strconv.Quote(FormatValue(v))
}
