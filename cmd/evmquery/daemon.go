package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/evmquery/evmquery/api"
	"github.com/evmquery/evmquery/service"
	"github.com/evmquery/evmquery/util"
	"github.com/evmquery/evmquery/util/metrics"
)

type daemonFlags struct {
	pidFilePath    string
	metricsVerbose bool
}

func daemonCmd() *cobra.Command {
	var flags daemonFlags
	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "run the evmquery daemon",
		Long:  "run the evmquery daemon. Serve the balance report and the balance API on HTTP.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := commandContext(cmd)
			defer stop()
			return runDaemon(ctx, flags)
		},
	}

	cmd.Flags().StringP("server", "S", "", "host:port to serve API on (default :8980)")
	cmd.Flags().StringSliceP("api-token", "t", nil, "optional auth tokens, when set REST calls must use one of them in a bearer format, or in a '"+api.TokenHeader+"' header")
	cmd.Flags().Bool("metrics-mode", false, "serve prometheus metrics on /metrics")
	cmd.Flags().BoolVar(&flags.metricsVerbose, "metrics-verbose", false, "label request metrics with the query parameter names")
	cmd.Flags().StringVarP(&flags.pidFilePath, "pidfile", "p", "", "file to write the daemon process id to")
	return cmd
}

func runDaemon(ctx context.Context, flags daemonFlags) error {
	svc, err := service.New(settings, logger)
	if err != nil {
		return err
	}

	if flags.pidFilePath != "" {
		err := util.CreatePidFile(logger, flags.pidFilePath)
		maybeFail(err, "failed to create pid file")
		defer util.RemovePidFile(logger, flags.pidFilePath)
	}

	if settings.Server.Metrics {
		// Register metrics with the global prometheus handler.
		metrics.RegisterPrometheusMetrics()
	}

	logger.Infof("answering queries at block %s", settings.Web3Connection.BlockTag)
	return api.Serve(ctx, settings.Server.Address, svc, logger, api.ExtraOptions{
		Tokens:                 settings.Server.Tokens,
		MetricsEndpoint:        settings.Server.Metrics,
		MetricsEndpointVerbose: flags.metricsVerbose,
		ReadTimeout:            settings.Server.ReadTimeout,
		WriteTimeout:           settings.Server.WriteTimeout,
		RequestTimeout:         settings.Server.RequestTimeout,
	})
}
