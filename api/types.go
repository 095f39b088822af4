package api

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
}

// BalanceResponse is the native balance of an address.
type BalanceResponse struct {
	Address string `json:"address"`
	Block   string `json:"block"`
	// Wei is a decimal string, balances do not fit a JSON number.
	Wei   string `json:"wei"`
	Ether string `json:"ether"`
}

// TokenBalanceResponse is the ERC20 balance of an owner.
type TokenBalanceResponse struct {
	Token    string `json:"token"`
	Owner    string `json:"owner"`
	Block    string `json:"block"`
	Raw      string `json:"raw"`
	Decimals uint8  `json:"decimals"`
	Amount   string `json:"amount"`
}

// HealthCheckResponse describes the daemon and the node behind it.
type HealthCheckResponse struct {
	Version     string  `json:"version"`
	ChainID     string  `json:"chain-id"`
	BlockNumber uint64  `json:"block-number"`
	Account     *string `json:"account,omitempty"`
}
