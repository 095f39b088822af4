// Package service wires the node client, the contract caller and the configured account
// together and exposes the balance queries served by the daemon and the CLI.
package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/evmquery/evmquery/abi"
	"github.com/evmquery/evmquery/config"
	"github.com/evmquery/evmquery/contract"
	"github.com/evmquery/evmquery/rpc"
	"github.com/evmquery/evmquery/signer"
	"github.com/evmquery/evmquery/units"
	"github.com/evmquery/evmquery/util/metrics"
)

// Node is the subset of the JSON-RPC client used by the service.
type Node interface {
	contract.Backend
	GetBalance(ctx context.Context, addr common.Address, block string) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	ChainID(ctx context.Context) (*big.Int, error)
	BlockTag() string
}

// Service answers balance queries.
type Service struct {
	query   config.Query
	node    Node
	caller  *contract.Caller
	account signer.Signer
	log     *log.Logger
}

// New builds the service from settings: the RPC client for web3-connection and, when a
// private key is configured, the account used as the sender of contract calls.
func New(settings config.Settings, logger *log.Logger) (*Service, error) {
	client, err := rpc.MakeClient(settings.Web3Connection, logger)
	if err != nil {
		return nil, err
	}
	account, err := signer.Load(settings.EthereumAccount.PrivateKey)
	if err != nil {
		return nil, err
	}
	return NewWithNode(settings.Query, client, account, logger), nil
}

// NewWithNode builds the service on an existing node client. account may be nil.
func NewWithNode(query config.Query, node Node, account signer.Signer, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}
	var from *common.Address
	if account != nil {
		addr := account.Address()
		from = &addr
		logger.Infof("using account %s as call sender", addr.Hex())
	}
	return &Service{
		query:   query,
		node:    node,
		caller:  contract.NewCaller(node, from, logger),
		account: account,
		log:     logger,
	}
}

// Balance is the native balance of an address.
type Balance struct {
	Address common.Address
	Block   string
	Wei     *big.Int
}

// Ether renders the balance in ether.
func (b Balance) Ether() string {
	return units.FromWei(b.Wei)
}

// TokenBalance is the ERC20 balance of an owner.
type TokenBalance struct {
	Token    common.Address
	Owner    common.Address
	Block    string
	Raw      *big.Int
	Decimals uint8
}

// Amount renders the balance with the token's decimals.
func (b TokenBalance) Amount() string {
	if b.Raw == nil {
		return "0"
	}
	s, err := units.FromBaseUnits(b.Raw, b.Decimals)
	if err != nil {
		// decimals are validated where they are set; show the raw amount otherwise.
		return b.Raw.String()
	}
	return s
}

// Report holds the balances of the configured account, token and owner.
type Report struct {
	Native Balance
	Token  TokenBalance
}

func (r Report) String() string {
	return "Balance Ether: " + r.Native.Ether() + " Balance Smart contract: " + r.Token.Amount()
}

// Health describes the node the service talks to.
type Health struct {
	ChainID     *big.Int
	BlockNumber uint64
	Account     *common.Address
}

// Account returns the configured account, or nil.
func (s *Service) Account() signer.Signer {
	return s.account
}

// Caller returns the contract caller, for arbitrary read-only calls.
func (s *Service) Caller() *contract.Caller {
	return s.caller
}

func (s *Service) blockTag(block string) string {
	if block == "" {
		return s.node.BlockTag()
	}
	if tag, err := rpc.ParseBlockTag(block); err == nil {
		return tag
	}
	return block
}

// NativeBalance returns the balance of addr at block, the configured tag when empty.
func (s *Service) NativeBalance(ctx context.Context, addr common.Address, block string) (Balance, error) {
	start := time.Now()
	defer func() {
		metrics.BalanceQueryTimeSeconds.WithLabelValues("native").Observe(time.Since(start).Seconds())
	}()

	wei, err := s.node.GetBalance(ctx, addr, block)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Address: addr, Block: s.blockTag(block), Wei: wei}, nil
}

// TokenBalance returns the token balance of owner, displayed with the configured decimals.
func (s *Service) TokenBalance(ctx context.Context, token, owner common.Address, block string) (TokenBalance, error) {
	start := time.Now()
	defer func() {
		metrics.BalanceQueryTimeSeconds.WithLabelValues("token").Observe(time.Since(start).Seconds())
	}()

	raw, err := contract.NewERC20(s.caller, token).BalanceOf(ctx, owner, block)
	if err != nil {
		return TokenBalance{}, err
	}
	return TokenBalance{
		Token:    token,
		Owner:    owner,
		Block:    s.blockTag(block),
		Raw:      raw,
		Decimals: s.query.TokenDecimals,
	}, nil
}

// TokenDecimals asks the token contract for its decimals.
func (s *Service) TokenDecimals(ctx context.Context, token common.Address, block string) (uint8, error) {
	decimals, err := contract.NewERC20(s.caller, token).Decimals(ctx, block)
	if err != nil {
		return 0, err
	}
	if int(decimals) > units.MaxDecimals {
		return 0, fmt.Errorf("token %s uses %d decimals, at most %d are supported", token.Hex(), decimals, units.MaxDecimals)
	}
	return decimals, nil
}

// Query calls an arbitrary read-only function.
func (s *Service) Query(ctx context.Context, to common.Address, block string, fn abi.Function, args ...abi.Value) ([]abi.Value, error) {
	return s.caller.Query(ctx, to, block, fn, args...)
}

// Report reads the configured account's native balance and the owner's token balance
// concurrently. The first failure cancels the other read.
func (s *Service) Report(ctx context.Context) (Report, error) {
	start := time.Now()
	defer func() {
		metrics.BalanceQueryTimeSeconds.WithLabelValues("report").Observe(time.Since(start).Seconds())
	}()

	account, token, owner, err := s.reportAddresses()
	if err != nil {
		return Report{}, err
	}

	var report Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.Native, err = s.NativeBalance(gctx, account, "")
		return err
	})
	g.Go(func() error {
		var err error
		report.Token, err = s.TokenBalance(gctx, token, owner, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return report, nil
}

func (s *Service) reportAddresses() (account, token, owner common.Address, err error) {
	for _, a := range []struct {
		name string
		hex  string
		dst  *common.Address
	}{
		{config.QueryAccountKey, s.query.Account, &account},
		{config.QueryTokenKey, s.query.Token, &token},
		{config.QueryOwnerKey, s.query.Owner, &owner},
	} {
		if !common.IsHexAddress(a.hex) {
			return account, token, owner, fmt.Errorf("%s: invalid address %q", a.name, a.hex)
		}
		*a.dst = common.HexToAddress(a.hex)
	}
	return account, token, owner, nil
}

// Health reports the chain id and the latest block number of the node.
func (s *Service) Health(ctx context.Context) (Health, error) {
	var h Health
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		h.ChainID, err = s.node.ChainID(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		h.BlockNumber, err = s.node.BlockNumber(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Health{}, err
	}
	if s.account != nil {
		addr := s.account.Address()
		h.Account = &addr
	}
	return h, nil
}
