package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromWei(t *testing.T) {
	tests := []struct {
		wei      string
		expected string
	}{
		{"1000000000000000000", "1"},
		{"0", "0"},
		{"100", "0.0000000000000001"},
		{"1", "0.000000000000000001"},
		{"1500000000000000000", "1.5"},
		{"123456789000000000000000", "123456.789"},
		{"-2500000000000000000", "-2.5"},
	}
	for _, tc := range tests {
		t.Run(tc.wei, func(t *testing.T) {
			wei, ok := new(big.Int).SetString(tc.wei, 10)
			require.True(t, ok)
			assert.Equal(t, tc.expected, FromWei(wei))
		})
	}

	assert.Equal(t, "0", FromWei(nil))
}

func TestFromBaseUnits(t *testing.T) {
	tests := []struct {
		value    int64
		decimals uint8
		expected string
	}{
		{100, 0, "100"},
		{100, 2, "1"},
		{1234567, 6, "1.234567"},
		{10, 6, "0.00001"},
		{5, 1, "0.5"},
	}
	for _, tc := range tests {
		s, err := FromBaseUnits(big.NewInt(tc.value), tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, s)
	}

	_, err := FromBaseUnits(big.NewInt(1), 19)
	assert.Error(t, err)
	_, err = FromBaseUnits(nil, 18)
	assert.Error(t, err)
}
