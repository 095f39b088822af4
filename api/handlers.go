package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/evmquery/evmquery/abi"
	"github.com/evmquery/evmquery/contract"
	"github.com/evmquery/evmquery/rpc"
	"github.com/evmquery/evmquery/service"
	"github.com/evmquery/evmquery/units"
	"github.com/evmquery/evmquery/version"
)

// Querier answers the queries served by the API. *service.Service implements it.
type Querier interface {
	Report(ctx context.Context) (service.Report, error)
	NativeBalance(ctx context.Context, addr common.Address, block string) (service.Balance, error)
	TokenBalance(ctx context.Context, token, owner common.Address, block string) (service.TokenBalance, error)
	TokenDecimals(ctx context.Context, token common.Address, block string) (uint8, error)
	Health(ctx context.Context) (service.Health, error)
}

// ServerImplementation implements the API routes.
type ServerImplementation struct {
	svc     Querier
	log     *log.Logger
	timeout time.Duration
}

////////////////////////////
// Handler implementation //
////////////////////////////

// MakeHealthCheck returns the chain id and head of the node. Returns 503 when the node cannot
// be reached.
// (GET /health)
func (si *ServerImplementation) MakeHealthCheck(ctx echo.Context) error {
	var health service.Health
	err := callWithTimeout(ctx.Request().Context(), si.log, si.timeout, func(ctx context.Context) error {
		var err error
		health, err = si.svc.Health(ctx)
		return err
	})
	if err != nil {
		si.log.WithError(err).Warn(errFailedLookingUpHealth)
		return ctx.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: fmt.Sprintf("%s: %s", errFailedLookingUpHealth, err),
		})
	}

	response := HealthCheckResponse{
		Version:     version.Version(),
		ChainID:     health.ChainID.String(),
		BlockNumber: health.BlockNumber,
	}
	if health.Account != nil {
		account := health.Account.Hex()
		response.Account = &account
	}
	return ctx.JSON(http.StatusOK, response)
}

// Report returns the balances of the configured account, token and owner as plain text.
// (GET /)
func (si *ServerImplementation) Report(ctx echo.Context) error {
	var report service.Report
	err := callWithTimeout(ctx.Request().Context(), si.log, si.timeout, func(ctx context.Context) error {
		var err error
		report, err = si.svc.Report(ctx)
		return err
	})
	if err != nil {
		return si.nodeError(ctx, errFailedReport, err)
	}
	return ctx.String(http.StatusOK, report.String())
}

// AccountBalance returns the native balance of an address.
// (GET /v1/accounts/{address}/balance)
func (si *ServerImplementation) AccountBalance(ctx echo.Context) error {
	addr, err := parseAddress(ctx.Param("address"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	block, err := parseBlock(ctx.QueryParam("block"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var balance service.Balance
	err = callWithTimeout(ctx.Request().Context(), si.log, si.timeout, func(ctx context.Context) error {
		var err error
		balance, err = si.svc.NativeBalance(ctx, addr, block)
		return err
	})
	if err != nil {
		return si.nodeError(ctx, errFailedBalanceLookup, err)
	}

	return ctx.JSON(http.StatusOK, BalanceResponse{
		Address: balance.Address.Hex(),
		Block:   balance.Block,
		Wei:     balance.Wei.String(),
		Ether:   balance.Ether(),
	})
}

// TokenBalance returns the ERC20 balance of an owner. The decimals query parameter
// overrides the configured display decimals, "auto" asks the token.
// (GET /v1/tokens/{token}/balances/{owner})
func (si *ServerImplementation) TokenBalance(ctx echo.Context) error {
	token, err := parseAddress(ctx.Param("token"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	owner, err := parseAddress(ctx.Param("owner"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	block, err := parseBlock(ctx.QueryParam("block"))
	if err != nil {
		return badRequest(ctx, err.Error())
	}
	decimalsParam := strings.ToLower(ctx.QueryParam("decimals"))
	var decimals *uint8
	if decimalsParam != "" && decimalsParam != "auto" {
		d, err := parseDecimals(decimalsParam)
		if err != nil {
			return badRequest(ctx, err.Error())
		}
		decimals = &d
	}

	var balance service.TokenBalance
	err = callWithTimeout(ctx.Request().Context(), si.log, si.timeout, func(ctx context.Context) error {
		var err error
		if balance, err = si.svc.TokenBalance(ctx, token, owner, block); err != nil {
			return err
		}
		if decimalsParam == "auto" {
			d, err := si.svc.TokenDecimals(ctx, token, block)
			if err != nil {
				return fmt.Errorf("%s: %w", errFailedDecimalsLookup, err)
			}
			decimals = &d
		}
		return nil
	})
	if err != nil {
		return si.nodeError(ctx, errFailedTokenLookup, err)
	}
	if decimals != nil {
		balance.Decimals = *decimals
	}

	return ctx.JSON(http.StatusOK, TokenBalanceResponse{
		Token:    balance.Token.Hex(),
		Owner:    balance.Owner.Hex(),
		Block:    balance.Block,
		Raw:      balance.Raw.String(),
		Decimals: balance.Decimals,
		Amount:   balance.Amount(),
	})
}

///////////////////
// Param parsing //
///////////////////

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: %q", errUnableToParseAddress, s)
	}
	return common.HexToAddress(s), nil
}

// parseBlock validates the block parameter. Empty selects the configured tag.
func parseBlock(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	tag, err := rpc.ParseBlockTag(s)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errUnableToParseBlock, err)
	}
	return tag, nil
}

func parseDecimals(s string) (uint8, error) {
	d, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%s: %q", errUnableToParseDecimals, s)
	}
	if d > units.MaxDecimals {
		return 0, fmt.Errorf("%s: %d > %d", errDecimalsTooLarge, d, units.MaxDecimals)
	}
	return uint8(d), nil
}

///////////////////
// Error Helpers //
///////////////////

// return a 400
func badRequest(ctx echo.Context, err string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Message: err,
	})
}

// nodeError maps a failed node query to a status code and writes it.
func (si *ServerImplementation) nodeError(ctx echo.Context, prefix string, err error) error {
	status := errorStatus(err)
	message := fmt.Sprintf("%s: %s", prefix, err)
	switch status {
	case http.StatusGatewayTimeout:
		message = fmt.Sprintf("%s: %s", prefix, errRequestCancelled)
	case http.StatusServiceUnavailable:
		message = fmt.Sprintf("%s: %s: %s", prefix, errNodeUnavailable, err)
	}
	if status >= http.StatusInternalServerError {
		si.log.WithError(err).Warn(prefix)
	}
	return ctx.JSON(status, ErrorResponse{
		Message: message,
	})
}

// errorStatus picks the status code for err:
// caller input 400, node or contract errors 502, unreachable node 503, timeouts 504.
func errorStatus(err error) int {
	var (
		encodeErr   *abi.EncodeError
		argumentErr *contract.ArgumentError
		transport   *rpc.TransportError
		rpcErr      *rpc.RPCError
		responseErr *rpc.ResponseError
		decodeErr   *abi.DecodeError
	)
	switch {
	case isTimeoutError(err), errors.Is(err, rpc.ErrCancelled):
		return http.StatusGatewayTimeout
	case errors.As(err, &encodeErr), errors.As(err, &argumentErr):
		return http.StatusBadRequest
	case errors.As(err, &transport):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &rpcErr), errors.As(err, &responseErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
