package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Request is a JSON-RPC request as received by the mock node.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

// Param decodes parameter i into v. It reports false when the parameter is missing or has a
// different shape.
func (r Request) Param(i int, v interface{}) bool {
	if i >= len(r.Params) {
		return false
	}
	return json.Unmarshal(r.Params[i], v) == nil
}

// NodeResponder answers a request and returns true, or returns false to let the next responder
// try.
type NodeResponder func(req Request, w http.ResponseWriter) bool

// NodeHandler is an http.Handler emulating an Ethereum node.
type NodeHandler struct {
	responders []NodeResponder
	mu         sync.Mutex
	calls      map[string]int
}

// NewNodeServer starts a mock node answering with responders.
func NewNodeServer(responders ...NodeResponder) *httptest.Server {
	return httptest.NewServer(NewNodeHandler(responders...))
}

// NewNodeHandler creates the handler without starting a server.
func NewNodeHandler(responders ...NodeResponder) *NodeHandler {
	return &NodeHandler{responders: responders, calls: make(map[string]int)}
}

// Calls returns how many requests for method were received.
func (handler *NodeHandler) Calls(method string) int {
	handler.mu.Lock()
	defer handler.mu.Unlock()
	return handler.calls[method]
}

func (handler *NodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	handler.mu.Lock()
	handler.calls[req.Method]++
	handler.mu.Unlock()

	for _, responder := range handler.responders {
		if responder(req, w) {
			return
		}
	}
	WriteError(w, req, -32601, "the method "+req.Method+" does not exist/is not available")
}

// WriteResult writes a successful response to req.
func WriteResult(w http.ResponseWriter, req Request, result interface{}) {
	writeJSON(w, map[string]interface{}{"jsonrpc": "2.0", "id": req.ID, "result": result})
}

// WriteError writes an error response to req.
func WriteError(w http.ResponseWriter, req Request, code int, message string) {
	writeJSON(w, map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.ID,
		"error":   map[string]interface{}{"code": code, "message": message},
	})
}

func writeJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}

// ResultResponder answers every request for method with result.
func ResultResponder(method string, result interface{}) NodeResponder {
	return func(req Request, w http.ResponseWriter) bool {
		if req.Method != method {
			return false
		}
		WriteResult(w, req, result)
		return true
	}
}

// ErrorResponder answers every request for method with a JSON-RPC error.
func ErrorResponder(method string, code int, message string) NodeResponder {
	return func(req Request, w http.ResponseWriter) bool {
		if req.Method != method {
			return false
		}
		WriteError(w, req, code, message)
		return true
	}
}

// StatusResponder answers every request for method with an HTTP status and no JSON body.
func StatusResponder(method string, status int) NodeResponder {
	return func(req Request, w http.ResponseWriter) bool {
		if req.Method != method {
			return false
		}
		w.WriteHeader(status)
		return true
	}
}

// BalanceResponder answers eth_getBalance for address, or for any address when address is
// empty. balance is a hex quantity.
func BalanceResponder(address string, balance string) NodeResponder {
	return func(req Request, w http.ResponseWriter) bool {
		if req.Method != "eth_getBalance" {
			return false
		}
		var addr string
		if address != "" && (!req.Param(0, &addr) || !strings.EqualFold(addr, address)) {
			return false
		}
		WriteResult(w, req, balance)
		return true
	}
}

// CallResponder answers eth_call requests to contract whose data starts with dataPrefix. Both
// are 0x prefixed hex; an empty contract matches any.
func CallResponder(contract string, dataPrefix string, result string) NodeResponder {
	return func(req Request, w http.ResponseWriter) bool {
		if req.Method != "eth_call" {
			return false
		}
		var call struct {
			To   string `json:"to"`
			Data string `json:"data"`
		}
		if !req.Param(0, &call) {
			return false
		}
		if contract != "" && !strings.EqualFold(call.To, contract) {
			return false
		}
		if !strings.HasPrefix(strings.ToLower(call.Data), strings.ToLower(dataPrefix)) {
			return false
		}
		WriteResult(w, req, result)
		return true
	}
}
