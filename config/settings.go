package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/evmquery/evmquery/rpc"
	"github.com/evmquery/evmquery/units"
)

// Configuration keys. Nested keys map to YAML sections and to environment variables with
// dots and dashes replaced by underscores, e.g. EVMQUERY_WEB3_CONNECTION_URL.
const (
	Web3URLKey           = "web3-connection.url"
	Web3TimeoutKey       = "web3-connection.timeout"
	Web3RetriesKey       = "web3-connection.retries"
	Web3RetryDelayKey    = "web3-connection.retry-delay"
	Web3MaxRetryDelayKey = "web3-connection.max-retry-delay"
	Web3BlockTagKey      = "web3-connection.block-tag"

	PrivateKeyKey     = "ethereum-account.private-key"
	PrivateKeyFileKey = "ethereum-account.private-key-file"

	QueryAccountKey       = "query.account"
	QueryTokenKey         = "query.token"
	QueryOwnerKey         = "query.owner"
	QueryTokenDecimalsKey = "query.token-decimals"

	ServerAddressKey        = "server.address"
	ServerTokensKey         = "server.tokens"
	ServerMetricsKey        = "server.metrics"
	ServerReadTimeoutKey    = "server.read-timeout"
	ServerWriteTimeoutKey   = "server.write-timeout"
	ServerRequestTimeoutKey = "server.request-timeout"

	LogLevelKey = "loglevel"
	LogFileKey  = "logfile"
)

const redacted = "<redacted>"

// Settings is the complete configuration.
type Settings struct {
	Web3Connection  rpc.Config      `yaml:"web3-connection"`
	EthereumAccount EthereumAccount `yaml:"ethereum-account"`
	Query           Query           `yaml:"query"`
	Server          Server          `yaml:"server"`
	LogLevel        string          `yaml:"loglevel"`
	LogFile         string          `yaml:"logfile"`
}

// EthereumAccount is the optional account used as the sender of calls.
type EthereumAccount struct {
	PrivateKey     string `yaml:"private-key"`
	PrivateKeyFile string `yaml:"private-key-file"`
}

// Query holds the addresses reported by the balance report.
type Query struct {
	Account       string `yaml:"account"`
	Token         string `yaml:"token"`
	Owner         string `yaml:"owner"`
	TokenDecimals uint8  `yaml:"token-decimals"`
}

// Server configures the HTTP daemon.
type Server struct {
	Address string `yaml:"address"`
	// Tokens are the access tokens which can access the API.
	Tokens []string `yaml:"tokens"`
	// Metrics turns on the /metrics endpoint for prometheus metrics.
	Metrics        bool          `yaml:"metrics"`
	ReadTimeout    time.Duration `yaml:"read-timeout"`
	WriteTimeout   time.Duration `yaml:"write-timeout"`
	RequestTimeout time.Duration `yaml:"request-timeout"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(Web3URLKey, "http://localhost:8545")
	v.SetDefault(Web3TimeoutKey, rpc.DefaultTimeout)
	v.SetDefault(Web3RetriesKey, rpc.DefaultRetries)
	v.SetDefault(Web3RetryDelayKey, rpc.DefaultRetryDelay)
	v.SetDefault(Web3MaxRetryDelayKey, rpc.DefaultMaxRetryDelay)
	v.SetDefault(Web3BlockTagKey, rpc.BlockLatest)

	v.SetDefault(QueryAccountKey, "0xde0b295669a9fd93d5f28d9ec85e40f4cb697bae")
	v.SetDefault(QueryTokenKey, "0x9f8f72aa9304c8b593d555f12ef6589cc3a579a2")
	v.SetDefault(QueryOwnerKey, "0x8ee7d9235e01e6b42345120b5d270bdb763624c7")
	v.SetDefault(QueryTokenDecimalsKey, units.EtherDecimals)

	v.SetDefault(ServerAddressKey, ":8980")
	v.SetDefault(ServerReadTimeoutKey, 10*time.Second)
	v.SetDefault(ServerWriteTimeoutKey, 60*time.Second)
	v.SetDefault(ServerRequestTimeoutKey, 30*time.Second)

	v.SetDefault(LogLevelKey, "info")
}

// Load reads the settings from v and validates them. A private key file is read when no key
// is given inline.
func Load(v *viper.Viper) (Settings, error) {
	decimals := v.GetUint(QueryTokenDecimalsKey)
	if decimals > units.MaxDecimals {
		return Settings{}, fmt.Errorf("%s: %d exceeds %d", QueryTokenDecimalsKey, decimals, units.MaxDecimals)
	}
	s := Settings{
		Web3Connection: rpc.Config{
			Endpoint:      v.GetString(Web3URLKey),
			Timeout:       v.GetDuration(Web3TimeoutKey),
			Retries:       v.GetUint(Web3RetriesKey),
			RetryDelay:    v.GetDuration(Web3RetryDelayKey),
			MaxRetryDelay: v.GetDuration(Web3MaxRetryDelayKey),
			BlockTag:      v.GetString(Web3BlockTagKey),
		},
		EthereumAccount: EthereumAccount{
			PrivateKey:     v.GetString(PrivateKeyKey),
			PrivateKeyFile: v.GetString(PrivateKeyFileKey),
		},
		Query: Query{
			Account:       v.GetString(QueryAccountKey),
			Token:         v.GetString(QueryTokenKey),
			Owner:         v.GetString(QueryOwnerKey),
			TokenDecimals: uint8(decimals),
		},
		Server: Server{
			Address:        v.GetString(ServerAddressKey),
			Tokens:         v.GetStringSlice(ServerTokensKey),
			Metrics:        v.GetBool(ServerMetricsKey),
			ReadTimeout:    v.GetDuration(ServerReadTimeoutKey),
			WriteTimeout:   v.GetDuration(ServerWriteTimeoutKey),
			RequestTimeout: v.GetDuration(ServerRequestTimeoutKey),
		},
		LogLevel: v.GetString(LogLevelKey),
		LogFile:  v.GetString(LogFileKey),
	}

	if s.EthereumAccount.PrivateKey == "" && s.EthereumAccount.PrivateKeyFile != "" {
		key, err := ReadSecretFile(s.EthereumAccount.PrivateKeyFile)
		if err != nil {
			return Settings{}, err
		}
		s.EthereumAccount.PrivateKey = key
	}
	return s, s.Validate()
}

// Validate checks the settings that can be checked without contacting the node.
func (s Settings) Validate() error {
	if s.Web3Connection.Endpoint == "" {
		return fmt.Errorf("%s is required", Web3URLKey)
	}
	if s.Web3Connection.Retries > rpc.MaxRetries {
		return fmt.Errorf("%s: %d exceeds %d", Web3RetriesKey, s.Web3Connection.Retries, rpc.MaxRetries)
	}
	if _, err := rpc.ParseBlockTag(s.Web3Connection.BlockTag); err != nil {
		return fmt.Errorf("%s: %w", Web3BlockTagKey, err)
	}
	for key, addr := range map[string]string{
		QueryAccountKey: s.Query.Account,
		QueryTokenKey:   s.Query.Token,
		QueryOwnerKey:   s.Query.Owner,
	} {
		if addr != "" && !common.IsHexAddress(addr) {
			return fmt.Errorf("%s: invalid address %q", key, addr)
		}
	}
	if int(s.Query.TokenDecimals) > units.MaxDecimals {
		return fmt.Errorf("%s: %d exceeds %d", QueryTokenDecimalsKey, s.Query.TokenDecimals, units.MaxDecimals)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (s Settings) Redacted() Settings {
	if s.EthereumAccount.PrivateKey != "" {
		s.EthereumAccount.PrivateKey = redacted
	}
	if len(s.Server.Tokens) > 0 {
		tokens := make([]string, len(s.Server.Tokens))
		for i := range tokens {
			tokens[i] = redacted
		}
		s.Server.Tokens = tokens
	}
	return s
}

// YAML renders the redacted settings in the configuration file format.
func (s Settings) YAML() ([]byte, error) {
	return yaml.Marshal(s.Redacted())
}
