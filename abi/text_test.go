package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		typ      string
		text     string
		expected Value
	}{
		{"address", "0x8ee7d9235e01e6b42345120b5d270bdb763624c7", Addr(testOwner)},
		{"uint256", "100", Uint64(100)},
		{"uint256", "0x64", Uint64(100)},
		{"int8", "-5", Int64(-5)},
		{"bool", "true", BoolValue(true)},
		{"bytes4", "0x70a08231", BytesValue{0x70, 0xa0, 0x82, 0x31}},
		{"string", "hello world", StringValue("hello world")},
		{"uint8[]", "[1, 2, 3]", List(Uint64(1), Uint64(2), Uint64(3))},
		{"(address,uint256)", `["0x8ee7d9235e01e6b42345120b5d270bdb763624c7", "7"]`, List(Addr(testOwner), Uint64(7))},
		{"string[][]", `[["a"], []]`, List(List(StringValue("a")), List())},
	}
	for _, tc := range tests {
		t.Run(tc.typ+" "+tc.text, func(t *testing.T) {
			v, err := ParseValue(MustTypeOf(tc.typ), tc.text)
			require.NoError(t, err)
			assert.True(t, Equal(tc.expected, v), "got %#v", v)
			require.NoError(t, Check(MustTypeOf(tc.typ), v))
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	tests := []struct {
		typ  string
		text string
	}{
		{"address", "0x1234"},
		{"uint256", "one"},
		{"bool", "maybe"},
		{"bytes", "deadbeef"},
		{"uint8[]", "1,2"},
		{"uint8[2]", "[1]"},
		{"(bool,bool)", "[true]"},
		{"uint8[]", `[1, "x"]`},
	}
	for _, tc := range tests {
		_, err := ParseValue(MustTypeOf(tc.typ), tc.text)
		assert.Error(t, err, "%s %s", tc.typ, tc.text)
	}
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "100", FormatValue(Uint64(100)))
	assert.Equal(t, "-1", FormatValue(Int64(-1)))
	assert.Equal(t, "0x8EE7D9235e01e6B42345120b5d270bdB763624C7", FormatValue(Addr(testOwner)))
	assert.Equal(t, "0x70a08231", FormatValue(BytesValue{0x70, 0xa0, 0x82, 0x31}))
	assert.Equal(t, `[true,"MKR",[1,2]]`, FormatValue(List(BoolValue(true), StringValue("MKR"), List(Uint64(1), Uint64(2)))))

	// formatted composites parse back.
	typ := MustTypeOf("(address,uint256[])")
	v := List(Addr(testOwner), List(Uint64(1), Uint64(2)))
	parsed, err := ParseValue(typ, FormatValue(v))
	require.NoError(t, err)
	assert.True(t, Equal(v, parsed))
}
