package main

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/evmquery/evmquery/config"
	"github.com/evmquery/evmquery/loggers"
	_ "github.com/evmquery/evmquery/util/disabledeadlock"
	"github.com/evmquery/evmquery/version"
)

// Calling os.Exit() directly will not honor any defer'd statements.
// Instead, we will create an exit type and handler so that we may panic
// and handle any exit specific errors
type exit struct {
	RC int // The exit code
}

// exitHandler will handle a panic with type of exit (see above)
func exitHandler() {
	if err := recover(); err != nil {
		if exit, ok := err.(exit); ok {
			os.Exit(exit.RC)
		}

		// It's not actually an exit type, restore panic
		panic(err)
	}
}

// Requires that main (and every go-routine that this is used)
// have defer exitHandler() called first
func maybeFail(err error, errfmt string, params ...interface{}) {
	if err == nil {
		return
	}
	logger.WithError(err).Errorf(errfmt, params...)
	panic(exit{1})
}

var (
	// Results go to standard out, so logs go to standard error unless a log file is set.
	loggerManager = loggers.MakeLoggerManager(os.Stderr)
	logger        = loggerManager.MakeLogger("main", log.InfoLevel)
	settings      config.Settings
)

type rootFlags struct {
	configFile string
	doVersion  bool
}

// makeRootCmd creates the command tree. Every subcommand loads the settings before it runs.
func makeRootCmd() *cobra.Command {
	var flags rootFlags
	rootCmd := &cobra.Command{
		Use:   "evmquery",
		Short: "Ethereum balance and contract queries",
		Long:  "evmquery reads native balances, ERC20 balances and arbitrary read-only contract calls from an Ethereum JSON-RPC node. It can also serve them over HTTP.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			//If no arguments passed, we should fallback to help
			cmd.HelpFunc()(cmd, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.doVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.LongVersion())
				panic(exit{0})
			}
			if cmd.Name() == "help" || cmd == cmd.Root() {
				return nil
			}
			return initSettings(cmd, flags.configFile)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "configuration file, defaults to "+config.FileName+".yml in the working directory")
	pf.BoolVarP(&flags.doVersion, "version", "v", false, "print version and exit")
	pf.StringP("loglevel", "l", "", "verbosity of logs: [error, warn, info, debug, trace]")
	pf.StringP("logfile", "f", "", "file to write logs to, if unset logs are written to standard error")
	pf.StringP("url", "u", "", "JSON-RPC endpoint of the Ethereum node")
	pf.Duration("timeout", 0, "timeout of a single JSON-RPC request")
	pf.Uint("retries", 0, "how many times a request failing in transport is retried")
	pf.Duration("retry-delay", 0, "delay before the first retry, doubled on every retry")
	pf.Duration("max-retry-delay", 0, "upper bound of the retry delay")
	pf.StringP("block", "b", "", "block the queries read: a tag (latest, safe, finalized, pending, earliest) or a number")
	pf.String("private-key", "", "hex private key whose address is the sender of contract calls")
	pf.String("private-key-file", "", "file holding the private key")

	rootCmd.AddCommand(
		daemonCmd(),
		balanceCmd(),
		tokenBalanceCmd(),
		reportCmd(),
		callCmd(),
		balancesCmd(),
		configCmd(),
	)
	return rootCmd
}

// initSettings merges defaults, the configuration file, the environment and the flags.
func initSettings(cmd *cobra.Command, configFile string) error {
	v := viper.GetViper()
	config.SetDefaults(v)
	// just hard-code yaml since we support multiple yaml filetypes
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	if configFile == "" {
		var err error
		if configFile, err = config.FindFile("."); err != nil {
			return err
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	config.BindFlagSet(cmd.Flags())

	var err error
	if settings, err = config.Load(v); err != nil {
		return err
	}
	return configureLogger(settings)
}

func configureLogger(s config.Settings) error {
	level := log.InfoLevel
	if s.LogLevel != "" {
		var err error
		if level, err = log.ParseLevel(s.LogLevel); err != nil {
			return err
		}
	}
	root, err := loggerManager.MakeRootLogger(level, s.LogFile)
	if err != nil {
		return err
	}
	logger = root
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debugf("using configuration file: %s", used)
	}
	return nil
}

func main() {
	// Setup our exit handler for maybeFail() and other exit panics
	defer exitHandler()

	if err := makeRootCmd().Execute(); err != nil {
		logger.WithError(err).Error("an error occurred running evmquery")
		panic(exit{1})
	}
}
