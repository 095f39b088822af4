package rpc

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// ErrCancelled is returned when the caller's context is cancelled or its deadline passes
// before the node answers. No result is decoded in that case.
var ErrCancelled = errors.New("rpc: call cancelled")

// TransportErrorKind classifies HTTP level failures.
type TransportErrorKind int

// Transport error kinds.
const (
	Timeout TransportErrorKind = iota + 1
	ConnectionFailed
	TLS
)

func (k TransportErrorKind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case ConnectionFailed:
		return "connection failed"
	case TLS:
		return "tls"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// TransportError is a failure to exchange a request with the node. These are transient and
// retried with backoff.
type TransportError struct {
	Kind     TransportErrorKind
	Method   string
	Endpoint string
	// StatusCode is set when the node answered with a non-2xx status and no JSON-RPC error.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("rpc: %s %s: %s: bad status: %d", e.Method, e.Endpoint, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("rpc: %s %s: %s: %v", e.Method, e.Endpoint, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RPCError is the error object of a JSON-RPC response. It is deterministic for a given node
// state and never retried.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("rpc error %d: %s (%s)", e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// ResponseError is returned when the node answers with a body that is not a valid JSON-RPC
// response for the request.
type ResponseError struct {
	Method string
	Err    error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc: %s: invalid response: %v", e.Method, e.Err)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err is a transport error, the only kind worth retrying.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func cancelled(method string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrCancelled, method, cause)
}

func transportKind(err error) TransportErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Timeout
	}

	var (
		verifyErr  *tls.CertificateVerificationError
		recordErr  tls.RecordHeaderError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
	)
	switch {
	case errors.As(err, &verifyErr),
		errors.As(err, &recordErr),
		errors.As(err, &authErr),
		errors.As(err, &hostErr),
		errors.As(err, &invalidErr):
		return TLS
	}
	return ConnectionFailed
}

// errorKind is the label used for the error metrics.
func errorKind(err error) string {
	var (
		te  *TransportError
		re  *RPCError
		rse *ResponseError
	)
	switch {
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	case errors.As(err, &te):
		return te.Kind.String()
	case errors.As(err, &re):
		return "rpc"
	case errors.As(err, &rse):
		return "response"
	default:
		return "other"
	}
}
