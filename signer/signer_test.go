package signer

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the first well known hardhat development key.
const devKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestFromHex(t *testing.T) {
	s, err := FromHex(devKey)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", s.Address().Hex())

	// the prefix is optional.
	s2, err := FromHex(devKey[2:])
	require.NoError(t, err)
	assert.Equal(t, s.Address(), s2.Address())
}

func TestFromHexMatchesGeneratedKey(t *testing.T) {
	pk, err := crypto.GenerateKey()
	require.NoError(t, err)

	s, err := FromHex(fmt.Sprintf("%x", crypto.FromECDSA(pk)))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(pk.PublicKey), s.Address())
}

func TestFromHexInvalid(t *testing.T) {
	for _, key := range []string{"0x1234", "not a key", devKey + "00"} {
		_, err := FromHex(key)
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.NotContains(t, err.Error(), key)
	}
}

func TestLoad(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Load("   ")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Load(devKey)
	require.NoError(t, err)
	require.NotNil(t, s)

	_, err = Load("0xzz")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestStringDoesNotLeakKey(t *testing.T) {
	s, err := FromHex(devKey)
	require.NoError(t, err)

	for _, out := range []string{fmt.Sprint(s), fmt.Sprintf("%v", s), fmt.Sprintf("%#v", s), fmt.Sprintf("%s", s)} {
		assert.NotContains(t, out, devKey[2:])
		assert.Contains(t, out, s.Address().Hex())
	}
}
