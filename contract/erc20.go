package contract

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/evmquery/evmquery/abi"
)

// Read-only ERC20 functions.
var (
	BalanceOf   = abi.MustParseFunction("balanceOf(address)", "uint256")
	TotalSupply = abi.MustParseFunction("totalSupply()", "uint256")
	Decimals    = abi.MustParseFunction("decimals()", "uint8")
	Symbol      = abi.MustParseFunction("symbol()", "string")
	Name        = abi.MustParseFunction("name()", "string")
)

// ERC20 is a token contract bound to an address.
type ERC20 struct {
	caller *Caller
	token  common.Address
}

// NewERC20 binds the token at address token.
func NewERC20(caller *Caller, token common.Address) *ERC20 {
	return &ERC20{caller: caller, token: token}
}

// Address of the token contract.
func (t *ERC20) Address() common.Address {
	return t.token
}

// BalanceOf returns the raw token balance of owner.
func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address, block string) (*big.Int, error) {
	return t.caller.QueryBigInt(ctx, t.token, block, BalanceOf, abi.Addr(owner))
}

// TotalSupply returns the raw total supply.
func (t *ERC20) TotalSupply(ctx context.Context, block string) (*big.Int, error) {
	return t.caller.QueryBigInt(ctx, t.token, block, TotalSupply)
}

// Decimals returns the number of decimals used for display.
func (t *ERC20) Decimals(ctx context.Context, block string) (uint8, error) {
	d, err := t.caller.QueryBigInt(ctx, t.token, block, Decimals)
	if err != nil {
		return 0, err
	}
	// the decoder rejects values wider than uint8.
	return uint8(d.Uint64()), nil
}

// Symbol returns the token symbol.
func (t *ERC20) Symbol(ctx context.Context, block string) (string, error) {
	return t.queryString(ctx, block, Symbol)
}

// Name returns the token name.
func (t *ERC20) Name(ctx context.Context, block string) (string, error) {
	return t.queryString(ctx, block, Name)
}

func (t *ERC20) queryString(ctx context.Context, block string, fn abi.Function) (string, error) {
	values, err := t.caller.Query(ctx, t.token, block, fn)
	if err != nil {
		return "", err
	}
	return string(values[0].(abi.StringValue)), nil
}
