// Package rpc is a JSON-RPC 2.0 client for the read-only Ethereum node methods.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/sirupsen/logrus"

	"github.com/evmquery/evmquery/util/metrics"
)

const (
	jsonrpcVersion = "2.0"
	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 32 << 20
)

// CallRequest is a read-only contract invocation.
type CallRequest struct {
	To common.Address
	// From is optional, some contracts answer differently depending on msg.sender.
	From *common.Address
	Data []byte
	// Block defaults to the client's configured block tag.
	Block string
}

type request struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

type callArg struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Data string `json:"data"`
}

// Client speaks JSON-RPC 2.0 to an Ethereum node over HTTP. It is safe for concurrent use.
type Client struct {
	endpoint string
	redacted string
	cfg      Config
	http     *http.Client
	log      *log.Logger
	nextID   atomic.Uint64
}

// MakeClient creates a client for cfg.Endpoint.
func MakeClient(cfg Config, logger *log.Logger) (*Client, error) {
	endpoint, err := normalizeEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if cfg.Retries > MaxRetries {
		return nil, fmt.Errorf("rpc: %d retries exceeds %d", cfg.Retries, MaxRetries)
	}
	cfg = cfg.withDefaults()
	if cfg.BlockTag, err = ParseBlockTag(cfg.BlockTag); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	if endpoint != strings.TrimSpace(cfg.Endpoint) {
		logger.Infof("RPC client added http prefix to endpoint: %s", redactEndpoint(endpoint))
	}
	cfg.Endpoint = endpoint

	return &Client{
		endpoint: endpoint,
		redacted: redactEndpoint(endpoint),
		cfg:      cfg,
		// A nil transport resolves to http.DefaultTransport on every request.
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}, nil
}

// Endpoint returns the node URL with any path or credentials removed, safe for logs.
func (c *Client) Endpoint() string {
	return c.redacted
}

// BlockTag is the tag used when a request names no block.
func (c *Client) BlockTag() string {
	return c.cfg.BlockTag
}

// Call executes eth_call and returns the raw return data.
func (c *Client) Call(ctx context.Context, req CallRequest) ([]byte, error) {
	block, err := c.resolveBlock(req.Block)
	if err != nil {
		return nil, err
	}
	arg := callArg{
		To:   addressHex(req.To),
		Data: hexutil.Encode(req.Data),
	}
	if req.From != nil {
		arg.From = addressHex(*req.From)
	}

	var result string
	if err := c.call(ctx, "eth_call", &result, arg, block); err != nil {
		return nil, err
	}
	data, err := hexutil.Decode(result)
	if err != nil {
		return nil, &ResponseError{Method: "eth_call", Err: fmt.Errorf("result %q: %w", result, err)}
	}
	return data, nil
}

// GetBalance returns the native balance of addr in wei.
func (c *Client) GetBalance(ctx context.Context, addr common.Address, block string) (*big.Int, error) {
	tag, err := c.resolveBlock(block)
	if err != nil {
		return nil, err
	}
	var result string
	if err := c.call(ctx, "eth_getBalance", &result, addressHex(addr), tag); err != nil {
		return nil, err
	}
	balance, err := parseQuantity(result)
	if err != nil {
		return nil, &ResponseError{Method: "eth_getBalance", Err: err}
	}
	return balance, nil
}

// BlockNumber returns the number of the most recent block.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result string
	if err := c.call(ctx, "eth_blockNumber", &result); err != nil {
		return 0, err
	}
	n, err := parseQuantity(result)
	if err != nil || !n.IsUint64() {
		return 0, &ResponseError{Method: "eth_blockNumber", Err: fmt.Errorf("invalid block number %q", result)}
	}
	metrics.LatestBlockGauge.Set(float64(n.Uint64()))
	return n.Uint64(), nil
}

// ChainID returns the chain id the node serves.
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	var result string
	if err := c.call(ctx, "eth_chainId", &result); err != nil {
		return nil, err
	}
	id, err := parseQuantity(result)
	if err != nil {
		return nil, &ResponseError{Method: "eth_chainId", Err: err}
	}
	return id, nil
}

func (c *Client) resolveBlock(block string) (string, error) {
	if block == "" {
		return c.cfg.BlockTag, nil
	}
	return ParseBlockTag(block)
}

// call sends method, retrying transport errors with exponential backoff, and unmarshals the
// result into result.
func (c *Client) call(ctx context.Context, method string, result interface{}, params ...interface{}) error {
	start := time.Now()
	defer func() {
		metrics.RPCRequestTimeSeconds.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}()
	if params == nil {
		params = []interface{}{}
	}

	raw, err := retry.DoWithData(
		func() (json.RawMessage, error) {
			return c.send(ctx, method, params)
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Retries+1),
		retry.Delay(c.cfg.RetryDelay),
		retry.MaxDelay(c.cfg.MaxRetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			// also invoked after the final attempt.
			if n >= c.cfg.Retries {
				return
			}
			metrics.RPCRetries.WithLabelValues(method).Inc()
			c.log.WithError(err).Warnf("rpc %s attempt %d failed, retrying", method, n+1)
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ErrCancelled) {
			err = cancelled(method, ctxErr)
		}
		metrics.RPCErrors.WithLabelValues(method, errorKind(err)).Inc()
		return err
	}

	if err := json.Unmarshal(raw, result); err != nil {
		err = &ResponseError{Method: method, Err: fmt.Errorf("result: %w", err)}
		metrics.RPCErrors.WithLabelValues(method, errorKind(err)).Inc()
		return err
	}
	return nil
}

// send makes a single attempt.
func (c *Client) send(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	body, err := json.Marshal(request{JSONRPC: jsonrpcVersion, ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("rpc: %s: encoding request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("rpc: %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.log.WithField("id", id).Debugf("rpc %s request to %s", method, c.redacted)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, method, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, c.transportError(ctx, method, err)
	}

	var env response
	jsonErr := json.Unmarshal(payload, &env)
	if jsonErr == nil && env.Error != nil {
		return nil, env.Error
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{
			Kind:       ConnectionFailed,
			Method:     method,
			Endpoint:   c.redacted,
			StatusCode: resp.StatusCode,
		}
	}
	if jsonErr != nil {
		return nil, &ResponseError{Method: method, Err: jsonErr}
	}
	if env.ID != id {
		return nil, &ResponseError{Method: method, Err: fmt.Errorf("response id %d does not match request id %d", env.ID, id)}
	}
	if len(env.Result) == 0 || bytes.Equal(env.Result, []byte("null")) {
		return nil, &ResponseError{Method: method, Err: fmt.Errorf("missing result")}
	}
	return env.Result, nil
}

func (c *Client) transportError(ctx context.Context, method string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cancelled(method, ctxErr)
	}
	return &TransportError{
		Kind:     transportKind(err),
		Method:   method,
		Endpoint: c.redacted,
		Err:      err,
	}
}

func addressHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
