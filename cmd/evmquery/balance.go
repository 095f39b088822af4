package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/evmquery/evmquery/service"
)

func balanceCmd() *cobra.Command {
	var wei bool
	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "print the ether balance of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress("address", args[0])
			if err != nil {
				return err
			}
			svc, err := service.New(settings, logger)
			if err != nil {
				return err
			}
			ctx, stop := commandContext(cmd)
			defer stop()

			balance, err := svc.NativeBalance(ctx, addr, "")
			if err != nil {
				return err
			}
			if wei {
				fmt.Fprintln(cmd.OutOrStdout(), balance.Wei.String())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), balance.Ether())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&wei, "wei", false, "print the balance in wei")
	return cmd
}

func tokenBalanceCmd() *cobra.Command {
	var (
		raw           bool
		fetchDecimals bool
	)
	cmd := &cobra.Command{
		Use:   "token-balance <token> <owner>",
		Short: "print the ERC20 balance of an owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := parseAddress("token", args[0])
			if err != nil {
				return err
			}
			owner, err := parseAddress("owner", args[1])
			if err != nil {
				return err
			}
			svc, err := service.New(settings, logger)
			if err != nil {
				return err
			}
			ctx, stop := commandContext(cmd)
			defer stop()

			balance, err := svc.TokenBalance(ctx, token, owner, "")
			if err != nil {
				return err
			}
			if fetchDecimals {
				if balance.Decimals, err = svc.TokenDecimals(ctx, token, ""); err != nil {
					return err
				}
			}
			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), balance.Raw.String())
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), balance.Amount())
			}
			return nil
		},
	}
	cmd.Flags().Uint8("token-decimals", 0, "decimals used to display the balance (default 18)")
	cmd.Flags().BoolVar(&fetchDecimals, "fetch-decimals", false, "ask the token for its decimals")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the balance in base units")
	return cmd
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "print the ether balance of the account and the token balance of the owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(settings, logger)
			if err != nil {
				return err
			}
			ctx, stop := commandContext(cmd)
			defer stop()

			report, err := svc.Report(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}
	cmd.Flags().String("account", "", "address whose ether balance is reported")
	cmd.Flags().String("token", "", "ERC20 token contract")
	cmd.Flags().String("owner", "", "address whose token balance is reported")
	cmd.Flags().Uint8("token-decimals", 0, "decimals used to display the token balance (default 18)")
	return cmd
}

func parseAddress(name, s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", name, s)
	}
	return common.HexToAddress(s), nil
}

// commandContext is cancelled on interrupt.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
