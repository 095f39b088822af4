package rpc

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Defaults applied to zero valued Config fields.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultRetries       = 3
	DefaultRetryDelay    = 250 * time.Millisecond
	DefaultMaxRetryDelay = 5 * time.Second

	// MaxRetries caps Config.Retries.
	MaxRetries = 100
)

// Config specific to the JSON-RPC client.
type Config struct {
	// Endpoint is the node URL. A missing scheme defaults to http.
	Endpoint string `yaml:"url"`
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration `yaml:"timeout"`
	// Retries is the number of additional attempts after a transport error.
	Retries uint `yaml:"retries"`
	// RetryDelay is the first backoff delay, doubled after each retry.
	RetryDelay    time.Duration `yaml:"retry-delay"`
	MaxRetryDelay time.Duration `yaml:"max-retry-delay"`
	// BlockTag is used when a request does not name a block.
	BlockTag string `yaml:"block-tag"`
}

// withDefaults fills zero values. Retries is left alone, zero disables retrying.
func (cfg Config) withDefaults() Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}
	if cfg.MaxRetryDelay <= 0 {
		cfg.MaxRetryDelay = DefaultMaxRetryDelay
	}
	if cfg.BlockTag == "" {
		cfg.BlockTag = BlockLatest
	}
	return cfg
}

// normalizeEndpoint adds the http prefix when no scheme is given.
func normalizeEndpoint(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", fmt.Errorf("rpc: endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("rpc: invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("rpc: unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("rpc: endpoint %q has no host", endpoint)
	}
	return u.String(), nil
}

// redactEndpoint keeps the scheme and host. Hosted providers put the API key in the path.
func redactEndpoint(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "<invalid endpoint>"
	}
	return u.Scheme + "://" + u.Host
}
