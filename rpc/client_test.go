package rpc

import (
	"context"
	"crypto/x509"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndpoint = "http://localhost:8545"

var (
	testAccount  = common.HexToAddress("0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae")
	testOwner    = common.HexToAddress("0x8ee7d9235e01e6b42345120b5d270bdb763624c7")
	testContract = common.HexToAddress("0x9f8f72aa9304c8b593d555f12ef6589cc3a579a2")
)

type recordedRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      uint64            `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// nodeResponder answers every request with result, echoing the request id. The decoded
// requests are appended to seen.
func nodeResponder(t *testing.T, seen *[]recordedRequest, result interface{}) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		var r recordedRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&r))
		if seen != nil {
			*seen = append(*seen, r)
		}
		return httpmock.NewJsonResponse(200, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      r.ID,
			"result":  result,
		})
	}
}

func makeTestClient(t *testing.T, retries uint) *Client {
	logger, _ := test.NewNullLogger()
	c, err := MakeClient(Config{
		Endpoint:      testEndpoint,
		Timeout:       time.Second,
		Retries:       retries,
		RetryDelay:    time.Millisecond,
		MaxRetryDelay: 2 * time.Millisecond,
	}, logger)
	require.NoError(t, err)
	return c
}

func param(t *testing.T, raw json.RawMessage) interface{} {
	var v interface{}
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestGetBalance(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []recordedRequest
	httpmock.RegisterResponder("POST", testEndpoint, nodeResponder(t, &seen, "0x0de0b6b3a7640000"))

	c := makeTestClient(t, 0)
	balance, err := c.GetBalance(context.Background(), testAccount, "")
	require.NoError(t, err)

	expected, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, 0, expected.Cmp(balance), "balance %s", balance)

	require.Len(t, seen, 1)
	assert.Equal(t, "2.0", seen[0].JSONRPC)
	assert.Equal(t, "eth_getBalance", seen[0].Method)
	require.Len(t, seen[0].Params, 2)
	assert.Equal(t, "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae", param(t, seen[0].Params[0]))
	assert.Equal(t, "latest", param(t, seen[0].Params[1]))
}

func TestCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []recordedRequest
	hundred := "0x" + strings.Repeat("0", 62) + "64"
	httpmock.RegisterResponder("POST", testEndpoint, nodeResponder(t, &seen, hundred))

	data := append([]byte{0x70, 0xa0, 0x82, 0x31}, common.LeftPadBytes(testOwner.Bytes(), 32)...)
	c := makeTestClient(t, 0)
	out, err := c.Call(context.Background(), CallRequest{To: testContract, Data: data})
	require.NoError(t, err)
	require.Len(t, out, 32)
	assert.Equal(t, int64(100), new(big.Int).SetBytes(out).Int64())

	require.Len(t, seen, 1)
	assert.Equal(t, "eth_call", seen[0].Method)
	require.Len(t, seen[0].Params, 2)
	assert.Equal(t, map[string]interface{}{
		"to":   "0x9f8f72aa9304c8b593d555f12ef6589cc3a579a2",
		"data": "0x70a08231" + strings.Repeat("0", 24) + "8ee7d9235e01e6b42345120b5d270bdb763624c7",
	}, param(t, seen[0].Params[0]))
	assert.Equal(t, "latest", param(t, seen[0].Params[1]))
}

func TestCallWithSenderAndBlock(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []recordedRequest
	httpmock.RegisterResponder("POST", testEndpoint, nodeResponder(t, &seen, "0x"))

	c := makeTestClient(t, 0)
	out, err := c.Call(context.Background(), CallRequest{
		To:    testContract,
		From:  &testOwner,
		Data:  []byte{0x18, 0x16, 0x0d, 0xdd},
		Block: "12",
	})
	require.NoError(t, err)
	assert.Empty(t, out)

	require.Len(t, seen, 1)
	arg := param(t, seen[0].Params[0]).(map[string]interface{})
	assert.Equal(t, "0x8ee7d9235e01e6b42345120b5d270bdb763624c7", arg["from"])
	assert.Equal(t, "0xc", param(t, seen[0].Params[1]))
}

func TestRequestIDsIncrease(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []recordedRequest
	httpmock.RegisterResponder("POST", testEndpoint, nodeResponder(t, &seen, "0x1"))

	c := makeTestClient(t, 0)
	for i := 0; i < 3; i++ {
		_, err := c.BlockNumber(context.Background())
		require.NoError(t, err)
	}
	require.Len(t, seen, 3)
	assert.Less(t, seen[0].ID, seen[1].ID)
	assert.Less(t, seen[1].ID, seen[2].ID)
}

func TestRPCErrorIsNotRetried(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		var r recordedRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&r))
		return httpmock.NewJsonResponse(200, map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      r.ID,
			"error":   map[string]interface{}{"code": -32000, "message": "execution reverted", "data": "0x"},
		})
	})

	c := makeTestClient(t, 3)
	_, err := c.Call(context.Background(), CallRequest{To: testContract})
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Equal(t, "execution reverted", rpcErr.Message)
	assert.JSONEq(t, `"0x"`, string(rpcErr.Data))
	assert.False(t, IsTransient(err))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestRPCErrorWithHTTPErrorStatus(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint, httpmock.NewStringResponder(400,
		`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid argument 0"}}`))

	c := makeTestClient(t, 3)
	_, err := c.GetBalance(context.Background(), testAccount, "")
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32602, rpcErr.Code)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestTransportErrorIsRetried(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	ok := nodeResponder(t, nil, "0x2a")
	calls := 0
	httpmock.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		calls++
		if calls < 3 {
			return httpmock.NewStringResponse(503, "unavailable"), nil
		}
		return ok(req)
	})

	c := makeTestClient(t, 3)
	balance, err := c.GetBalance(context.Background(), testAccount, BlockLatest)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance.Int64())
	assert.Equal(t, 3, calls)
}

func TestTransportRetriesExhausted(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", testEndpoint, httpmock.NewStringResponder(502, "bad gateway"))

	c := makeTestClient(t, 2)
	_, err := c.GetBalance(context.Background(), testAccount, "")
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, ConnectionFailed, te.Kind)
	assert.Equal(t, 502, te.StatusCode)
	assert.Equal(t, "eth_getBalance", te.Method)
	assert.Equal(t, 3, httpmock.GetTotalCallCount())
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestTransportErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind TransportErrorKind
	}{
		{"timeout", timeoutError{}, Timeout},
		{"tls", x509.UnknownAuthorityError{}, TLS},
		{"hostname", x509.HostnameError{Host: "localhost"}, TLS},
		{"refused", errors.New("connect: connection refused"), ConnectionFailed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()
			httpmock.RegisterResponder("POST", testEndpoint, httpmock.NewErrorResponder(tc.err))

			c := makeTestClient(t, 0)
			_, err := c.Call(context.Background(), CallRequest{To: testContract})
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tc.kind, te.Kind)
			assert.Equal(t, "http://localhost:8545", te.Endpoint)
			assert.True(t, IsTransient(err))
		})
	}
}

func TestCancelledCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	httpmock.RegisterResponder("POST", testEndpoint, func(req *http.Request) (*http.Response, error) {
		cancel()
		return nil, errors.New("connection reset by peer")
	})

	c := makeTestClient(t, 3)
	out, err := c.Call(ctx, CallRequest{To: testContract})
	require.ErrorIs(t, err, ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, out)
	assert.False(t, IsTransient(err))
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestInvalidResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"wrong id", `{"jsonrpc":"2.0","id":999,"result":"0x1"}`},
		{"missing result", `{"jsonrpc":"2.0","id":1}`},
		{"bad quantity", `{"jsonrpc":"2.0","id":1,"result":"12"}`},
		{"wrong result type", `{"jsonrpc":"2.0","id":1,"result":12}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.Activate()
			defer httpmock.DeactivateAndReset()
			httpmock.RegisterResponder("POST", testEndpoint, httpmock.NewStringResponder(200, tc.body))

			// a fresh client so the first request id is 1.
			c := makeTestClient(t, 3)
			_, err := c.GetBalance(context.Background(), testAccount, "")
			var re *ResponseError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, 1, httpmock.GetTotalCallCount())
		})
	}
}

func TestChainID(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	var seen []recordedRequest
	httpmock.RegisterResponder("POST", testEndpoint, nodeResponder(t, &seen, "0x1"))

	c := makeTestClient(t, 0)
	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Int64())
	require.Len(t, seen, 1)
	assert.Equal(t, "eth_chainId", seen[0].Method)
	assert.Empty(t, seen[0].Params)
}

func TestMakeClient(t *testing.T) {
	logger, _ := test.NewNullLogger()

	c, err := MakeClient(Config{Endpoint: "localhost:8545"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", c.endpoint)
	assert.Equal(t, BlockLatest, c.BlockTag())
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)

	c, err = MakeClient(Config{Endpoint: "https://mainnet.infura.io/v3/secret-key", BlockTag: "finalized"}, logger)
	require.NoError(t, err)
	assert.Equal(t, "https://mainnet.infura.io", c.Endpoint())
	assert.Equal(t, BlockFinalized, c.BlockTag())

	for _, cfg := range []Config{
		{},
		{Endpoint: "ftp://localhost"},
		{Endpoint: "http://"},
		{Endpoint: "localhost:8545", BlockTag: "yesterday"},
		{Endpoint: "localhost:8545", Retries: MaxRetries + 1},
		{Endpoint: "localhost:8545", Retries: ^uint(0)},
	} {
		_, err := MakeClient(cfg, logger)
		assert.Error(t, err, cfg.Endpoint)
	}
}

func TestParseBlockTag(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		err      bool
	}{
		{"", "latest", false},
		{"latest", "latest", false},
		{"Pending", "pending", false},
		{"safe", "safe", false},
		{"earliest", "earliest", false},
		{"0x10", "0x10", false},
		{"16", "0x10", false},
		{"0", "0x0", false},
		{"0x", "", true},
		{"-1", "", true},
		{"tomorrow", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			tag, err := ParseBlockTag(tc.in)
			if tc.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, tag)
		})
	}
	assert.Equal(t, "0x112a880", BlockNumberTag(18000000))
}

func TestParseQuantity(t *testing.T) {
	x, err := parseQuantity("0x0de0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", x.String())

	x, err = parseQuantity("0x0")
	require.NoError(t, err)
	assert.Zero(t, x.Sign())

	for _, bad := range []string{"", "0x", "de0b", "0x-1", "0xzz"} {
		_, err := parseQuantity(bad)
		assert.Error(t, err, bad)
	}
}
