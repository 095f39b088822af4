package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/evmquery/evmquery/service"
)

func balancesCmd() *cobra.Command {
	var threads int
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "print the ether balance of every address read from standard input",
		Long: "print the ether balance of every address read from standard input, one address per line. " +
			"Blank lines and lines starting with # are skipped. Every address is queried even when some fail, " +
			"the command then exits with an error.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if threads < 1 {
				return fmt.Errorf("--threads must be positive, got %d", threads)
			}
			addresses, err := readAddresses(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := service.New(settings, logger)
			if err != nil {
				return err
			}
			ctx, stop := commandContext(cmd)
			defer stop()

			lines := make([]string, len(addresses))
			failed := make([]bool, len(addresses))
			var g errgroup.Group
			g.SetLimit(threads)
			for i, address := range addresses {
				i, address := i, address
				g.Go(func() error {
					addr, err := parseAddress("address", address)
					if err == nil {
						var balance service.Balance
						if balance, err = svc.NativeBalance(ctx, addr, ""); err == nil {
							lines[i] = address + " " + balance.Ether()
							return nil
						}
					}
					lines[i] = address + " error: " + err.Error()
					failed[i] = true
					return nil
				})
			}
			_ = g.Wait()

			failures := 0
			for i, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
				if failed[i] {
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d balance queries failed", failures, len(lines))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&threads, "threads", 4, "number of concurrent queries")
	return cmd
}

func readAddresses(r io.Reader) ([]string, error) {
	var addresses []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		addresses = append(addresses, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading addresses: %w", err)
	}
	if len(addresses) == 0 {
		return nil, errors.New("no addresses on standard input")
	}
	return addresses, nil
}
