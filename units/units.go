// Package units renders integer base unit amounts as exact decimal strings.
package units

import (
	"fmt"
	"math/big"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// EtherDecimals is the number of decimals between wei and ether.
const EtherDecimals = 18

// MaxDecimals is the largest precision FromBaseUnits supports.
const MaxDecimals = sdkmath.LegacyPrecision

// FromWei renders a wei amount in ether, "1000000000000000000" becomes "1". A nil amount
// renders as "0".
func FromWei(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s, err := FromBaseUnits(wei, EtherDecimals)
	if err != nil {
		// unreachable, EtherDecimals is within MaxDecimals.
		panic(err)
	}
	return s
}

// FromBaseUnits renders v shifted right by decimals places. Trailing zeros of the fraction
// are trimmed.
func FromBaseUnits(v *big.Int, decimals uint8) (string, error) {
	if v == nil {
		return "", fmt.Errorf("nil amount")
	}
	if int(decimals) > MaxDecimals {
		return "", fmt.Errorf("%d decimals exceeds the supported precision of %d", decimals, MaxDecimals)
	}
	dec := sdkmath.LegacyNewDecFromBigIntWithPrec(v, int64(decimals))
	return trimZeros(dec.String()), nil
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
