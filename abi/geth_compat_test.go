package abi

import (
	"math/big"
	"testing"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGethCompatibility packs the same arguments with go-ethereum and compares the bytes.
func TestGethCompatibility(t *testing.T) {
	var selector [32]byte
	copy(selector[:], Keccak256([]byte("balanceOf(address)")))

	tests := []struct {
		name  string
		typ   string
		ours  Value
		geths interface{}
	}{
		{"address", "address", Addr(testOwner), testOwner},
		{"uint8", "uint8", Uint64(200), uint8(200)},
		{"uint256", "uint256", Uint64(100), big.NewInt(100)},
		{"int256 negative", "int256", Int64(-5), big.NewInt(-5)},
		{"bool", "bool", BoolValue(true), true},
		{"bytes32", "bytes32", BytesValue(selector[:]), selector},
		{"bytes", "bytes", BytesValue("some bytes longer than a single word, to spill over"), []byte("some bytes longer than a single word, to spill over")},
		{"string", "string", StringValue("abc"), "abc"},
		{"address slice", "address[]", List(Addr(testOwner), Addr(testContract)), []common.Address{testOwner, testContract}},
		{"uint256 array", "uint256[2]", List(Uint64(1), Uint64(2)), [2]*big.Int{big.NewInt(1), big.NewInt(2)}},
		{"string slice", "string[]", List(StringValue("a"), StringValue("b")), []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gethType, err := gethabi.NewType(tc.typ, "", nil)
			require.NoError(t, err)
			expected, err := gethabi.Arguments{{Type: gethType}}.Pack(tc.geths)
			require.NoError(t, err)

			got, err := Encode(MustTypeOf(tc.typ), tc.ours)
			require.NoError(t, err)
			assert.Equal(t, expected, got)
		})
	}
}

func TestGethCompatibilityMultipleArguments(t *testing.T) {
	stringType, err := gethabi.NewType("string", "", nil)
	require.NoError(t, err)
	uintType, err := gethabi.NewType("uint256", "", nil)
	require.NoError(t, err)
	addrType, err := gethabi.NewType("address", "", nil)
	require.NoError(t, err)

	args := gethabi.Arguments{{Type: stringType}, {Type: uintType}, {Type: addrType}}
	expected, err := args.Pack("MKR", big.NewInt(18), testContract)
	require.NoError(t, err)

	got, err := EncodeArguments(
		[]Type{MakeStringType(), MustTypeOf("uint256"), MakeAddressType()},
		[]Value{StringValue("MKR"), Uint64(18), Addr(testContract)})
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	unpacked, err := args.Unpack(got)
	require.NoError(t, err)
	assert.Equal(t, "MKR", unpacked[0])
	assert.Equal(t, big.NewInt(18), unpacked[1])
	assert.Equal(t, testContract, unpacked[2])
}
