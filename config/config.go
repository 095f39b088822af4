package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable configurations.
const EnvPrefix = "EVMQUERY"

// FileTypes is an array of types of the config file.
var FileTypes = [...]string{"yml", "yaml"}

// FileName is the name of the config file.
const FileName = "evmquery"

// FindFile looks for FileName with one of the FileTypes in dir. It returns an empty path
// when there is none, and an error when more than one matches.
func FindFile(dir string) (string, error) {
	var found string
	for _, ft := range FileTypes {
		path := filepath.Join(dir, FileName+"."+ft)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if found != "" {
			return "", fmt.Errorf("config filename (%s) in directory (%s) matched more than one filetype: %v",
				FileName, dir, FileTypes)
		}
		found = path
	}
	return found, nil
}

// FlagKeys maps command line flags to the configuration keys they override. Flags not listed
// use their own name as key.
var FlagKeys = map[string]string{
	"url":              Web3URLKey,
	"timeout":          Web3TimeoutKey,
	"retries":          Web3RetriesKey,
	"retry-delay":      Web3RetryDelayKey,
	"max-retry-delay":  Web3MaxRetryDelayKey,
	"block":            Web3BlockTagKey,
	"private-key":      PrivateKeyKey,
	"private-key-file": PrivateKeyFileKey,
	"account":          QueryAccountKey,
	"token":            QueryTokenKey,
	"owner":            QueryOwnerKey,
	"token-decimals":   QueryTokenDecimalsKey,
	"server":           ServerAddressKey,
	"api-token":        ServerTokensKey,
	"metrics-mode":     ServerMetricsKey,
	"loglevel":         LogLevelKey,
	"logfile":          LogFileKey,
}

// BindFlagSet glues cobra and viper together via FlagSets
func BindFlagSet(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if k, ok := FlagKeys[f.Name]; ok {
			key = k
			// Flags feed the nested configuration keys read by Load.
			_ = viper.BindPFlag(key, f)
		}

		// Environment variables can't have dashes in them, so bind them to their equivalent
		// keys with underscores
		// e.g. prefix=STING and --favorite-color is set to STING_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") && key == f.Name {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			viper.BindEnv(f.Name, fmt.Sprintf("%s_%s", EnvPrefix, envVarSuffix))
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(key) {
			_ = flags.Set(f.Name, flagValue(viper.Get(key)))
		}
	})
}

// flagValue renders a configuration value the way pflag parses it.
func flagValue(val interface{}) string {
	switch v := val.(type) {
	case []interface{}:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprintf("%v", e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	}
	return fmt.Sprintf("%v", val)
}
