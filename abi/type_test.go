package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		input     string
		canonical string
		dynamic   bool
	}{
		{"address", "address", false},
		{"uint", "uint256", false},
		{"int", "int256", false},
		{"uint8", "uint8", false},
		{"int24", "int24", false},
		{"bool", "bool", false},
		{"bytes", "bytes", true},
		{"bytes32", "bytes32", false},
		{"string", "string", true},
		{"uint256[]", "uint256[]", true},
		{"address[3]", "address[3]", false},
		{"string[2]", "string[2]", true},
		{"uint[][2]", "uint256[][2]", true},
		{"(uint,bool)", "(uint256,bool)", false},
		{"(uint8, string)", "(uint8,string)", true},
		{"(address,(bool,bytes4))[]", "(address,(bool,bytes4))[]", true},
		{"()", "()", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			typ, err := TypeOf(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.canonical, typ.String())
			assert.Equal(t, tc.dynamic, typ.IsDynamic())
		})
	}
}

func TestTypeOfErrors(t *testing.T) {
	for _, name := range []string{
		"",
		"uint7",
		"uint264",
		"uint08",
		"int-8",
		"bytes0",
		"bytes33",
		"foo",
		"uint256[x]",
		"[]",
		"(uint256",
		"(uint256))",
		"((bool)",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := TypeOf(name)
			assert.Error(t, err)
		})
	}
}

func TestHeadSize(t *testing.T) {
	assert.Equal(t, 32, MustTypeOf("uint8").headSize())
	assert.Equal(t, 96, MustTypeOf("address[3]").headSize())
	assert.Equal(t, 64, MustTypeOf("(bool,bytes32)").headSize())
	assert.Equal(t, 32, MustTypeOf("(bool,string)").headSize())
	assert.Equal(t, 32, MustTypeOf("uint256[]").headSize())
	assert.Equal(t, 0, MustTypeOf("uint256[0]").headSize())
}

func TestMakeTypeInvariants(t *testing.T) {
	_, err := MakeUintType(12)
	assert.Error(t, err)
	_, err = MakeIntType(0)
	assert.Error(t, err)
	_, err = MakeFixedBytesType(33)
	assert.Error(t, err)
	_, err = MakeArrayType(MakeBoolType(), -1)
	assert.Error(t, err)

	typ, err := MakeUintType(256)
	require.NoError(t, err)
	assert.Equal(t, UintKind, typ.Kind())
	assert.Equal(t, 256, typ.Size())
}

func TestTupleFieldsAreCopied(t *testing.T) {
	fields := []Type{MakeBoolType(), MakeAddressType()}
	tuple := MakeTupleType(fields...)
	fields[0] = MakeStringType()

	assert.Equal(t, "(bool,address)", tuple.String())
	got := tuple.Fields()
	got[1] = MakeStringType()
	assert.Equal(t, "(bool,address)", tuple.String())
}
