package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evmquery/evmquery/abi"
	"github.com/evmquery/evmquery/contract"
	"github.com/evmquery/evmquery/service"
)

type callFlags struct {
	to      string
	sig     string
	outputs []string
	abiFile string
	method  string
}

func callCmd() *cobra.Command {
	var flags callFlags
	cmd := &cobra.Command{
		Use:   "call [args...]",
		Short: "call a read-only contract function and print the results",
		Long: "call a read-only contract function and print the decoded results, one per line. " +
			"The function is given by --sig and --out, or by --abi and --method. " +
			"Arguments use text forms: addresses and bytes in 0x hex, integers in decimal or 0x hex, " +
			"arrays and tuples as JSON arrays.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := parseAddress("to", flags.to)
			if err != nil {
				return err
			}
			fn, err := flags.function()
			if err != nil {
				return err
			}
			values, err := parseArguments(fn, args)
			if err != nil {
				return err
			}
			svc, err := service.New(settings, logger)
			if err != nil {
				return err
			}
			ctx, stop := commandContext(cmd)
			defer stop()

			results, err := svc.Query(ctx, to, "", fn, values...)
			if err != nil {
				return err
			}
			for _, v := range results {
				fmt.Fprintln(cmd.OutOrStdout(), abi.FormatValue(v))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&flags.to, "to", "", "contract address")
	cmd.Flags().StringVar(&flags.sig, "sig", "", "function signature, e.g. 'balanceOf(address)'")
	cmd.Flags().StringArrayVar(&flags.outputs, "out", nil, "output type, repeat for every output")
	cmd.Flags().StringVar(&flags.abiFile, "abi", "", "JSON ABI file describing the contract")
	cmd.Flags().StringVar(&flags.method, "method", "", "function of the JSON ABI to call")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (f callFlags) function() (abi.Function, error) {
	switch {
	case f.abiFile != "" && f.sig != "":
		return abi.Function{}, errors.New("--sig and --abi are mutually exclusive")
	case f.abiFile != "":
		if f.method == "" {
			return abi.Function{}, errors.New("--method is required with --abi")
		}
		file, err := os.Open(f.abiFile)
		if err != nil {
			return abi.Function{}, err
		}
		defer file.Close()
		c, err := abi.ParseJSON(file)
		if err != nil {
			return abi.Function{}, fmt.Errorf("%s: %w", f.abiFile, err)
		}
		return c.Function(f.method)
	case f.sig != "":
		return abi.ParseFunction(f.sig, f.outputs...)
	default:
		return abi.Function{}, errors.New("one of --sig or --abi is required")
	}
}

// parseArguments reads the text form of every argument of fn.
func parseArguments(fn abi.Function, args []string) ([]abi.Value, error) {
	inputs := fn.Inputs()
	if len(args) != len(inputs) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d: %w", fn.Signature(), len(inputs), len(args), contract.ErrArity)
	}
	values := make([]abi.Value, len(args))
	for i, in := range inputs {
		v, err := abi.ParseValue(in.Type, args[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, fn.Signature(), err)
		}
		values[i] = v
	}
	return values, nil
}
