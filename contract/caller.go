package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"

	"github.com/evmquery/evmquery/abi"
	"github.com/evmquery/evmquery/rpc"
)

// Backend executes read-only calls against a node. *rpc.Client implements it.
type Backend interface {
	Call(ctx context.Context, req rpc.CallRequest) ([]byte, error)
}

// Caller encodes a function call, sends it through a Backend and decodes the return data.
type Caller struct {
	backend Backend
	from    *common.Address
	log     *log.Logger
}

// NewCaller creates a Caller. When from is set it is sent as the sender of every call.
func NewCaller(backend Backend, from *common.Address, logger *log.Logger) *Caller {
	if logger == nil {
		logger = log.StandardLogger()
	}
	var sender *common.Address
	if from != nil {
		addr := *from
		sender = &addr
	}
	return &Caller{backend: backend, from: sender, log: logger}
}

// Query calls fn on the contract at to and decodes all of its outputs. An empty block uses the
// backend's default block tag.
func (c *Caller) Query(ctx context.Context, to common.Address, block string, fn abi.Function, args ...abi.Value) ([]abi.Value, error) {
	outputs := fn.Outputs()
	return c.query(ctx, to, block, fn, len(outputs), args)
}

// QueryBigInt calls fn and returns its first output, which must be an integer.
func (c *Caller) QueryBigInt(ctx context.Context, to common.Address, block string, fn abi.Function, args ...abi.Value) (*big.Int, error) {
	outputs := fn.Outputs()
	if len(outputs) == 0 {
		return nil, fmt.Errorf("%s: no outputs: %w", fn.Signature(), abi.ErrArityMismatch)
	}
	if k := outputs[0].Kind(); k != abi.UintKind && k != abi.IntKind {
		return nil, fmt.Errorf("%s: first output is %s, not an integer", fn.Signature(), outputs[0])
	}
	values, err := c.query(ctx, to, block, fn, 1, args)
	if err != nil {
		return nil, err
	}
	return values[0].(abi.IntValue).Int, nil
}

func (c *Caller) query(ctx context.Context, to common.Address, block string, fn abi.Function, want int, args []abi.Value) ([]abi.Value, error) {
	call, err := Build(fn, args...)
	if err != nil {
		return nil, err
	}

	c.log.Debugf("calling %s on %s", fn.Signature(), to.Hex())
	data, err := c.backend.Call(ctx, rpc.CallRequest{
		To:    to,
		From:  c.from,
		Data:  call.Bytes(),
		Block: block,
	})
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", fn.Signature(), to.Hex(), err)
	}
	// a result that raced with cancellation is dropped.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%s on %s: %w: %w", fn.Signature(), to.Hex(), rpc.ErrCancelled, ctxErr)
	}

	values, err := DecodeResponse(fn.Outputs(), data, want)
	if err != nil {
		return nil, fmt.Errorf("%s on %s: %w", fn.Signature(), to.Hex(), err)
	}
	return values, nil
}
