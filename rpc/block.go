package rpc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Named block tags accepted by eth_call and eth_getBalance.
const (
	BlockLatest    = "latest"
	BlockEarliest  = "earliest"
	BlockPending   = "pending"
	BlockSafe      = "safe"
	BlockFinalized = "finalized"
)

// BlockNumberTag returns the tag addressing block n.
func BlockNumberTag(n uint64) string {
	return hexutil.EncodeUint64(n)
}

// ParseBlockTag validates a block tag. It accepts the named tags, hex quantities and decimal
// block numbers, and returns the form sent on the wire. An empty string is "latest".
func ParseBlockTag(tag string) (string, error) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch tag {
	case "":
		return BlockLatest, nil
	case BlockLatest, BlockEarliest, BlockPending, BlockSafe, BlockFinalized:
		return tag, nil
	}
	if strings.HasPrefix(tag, "0x") {
		n, err := hexutil.DecodeUint64(tag)
		if err != nil {
			return "", fmt.Errorf("invalid block tag %q: %w", tag, err)
		}
		return BlockNumberTag(n), nil
	}
	n, err := strconv.ParseUint(tag, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid block tag %q", tag)
	}
	return BlockNumberTag(n), nil
}

// parseQuantity parses a hex quantity. Leading zeros are tolerated since some nodes pad
// balances.
func parseQuantity(s string) (*big.Int, error) {
	digits, ok := strings.CutPrefix(s, "0x")
	if !ok {
		digits, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return nil, fmt.Errorf("quantity %q is missing the 0x prefix", s)
	}
	if digits == "" || digits[0] == '-' || digits[0] == '+' {
		return nil, fmt.Errorf("invalid quantity %q", s)
	}
	x, ok := new(big.Int).SetString(digits, 16)
	if !ok {
		return nil, fmt.Errorf("invalid quantity %q", s)
	}
	return x, nil
}
