package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	gouncertain "github.com/njchilds90/gouncertain"
	"github.com/njchilds90/gouncertain/internal/config"
	"github.com/njchilds90/gouncertain/internal/logging"
)

// options are the flags shared by every subcommand.
type options struct {
	logLevel    string
	jsonOutput  bool
	correlation bool
	formatter   gouncertain.Formatter
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadOrDefault()
	opts := &options{formatter: cfg.Formatter()}

	rootCmd := &cobra.Command{
		Use:   "uncertain",
		Short: "Format, parse and propagate measurement uncertainties",
		Long: `uncertain renders values with their standard errors in the compact
parenthetical notation, parses such literals back, and evaluates documents of
correlated measurements with first-order error propagation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := logging.FromLevel(opts.logLevel, cfg.Logging.Development)
			gouncertain.SetLogger(log.Logger.Named("cli"))
			log.Debug("command", zap.String("name", cmd.Name()), zap.Strings("args", args))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.Logging.Level,
		"Log level (debug, info, warn, error)")

	fmtCmd := &cobra.Command{
		Use:   "fmt VALUE [ERROR]",
		Short: "Render a value and its standard error as 1.234(56)e-7",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  opts.runFormat,
	}
	fmtCmd.Flags().IntVar(&opts.formatter.NoErrorDigits, "digits", opts.formatter.NoErrorDigits,
		"Fractional digits printed when the error is zero")
	fmtCmd.Flags().IntVar(&opts.formatter.MaxPrecision, "max-precision", opts.formatter.MaxPrecision,
		"Upper bound on fractional digits chosen from the error")

	parseCmd := &cobra.Command{
		Use:   "parse LITERAL",
		Short: "Parse a literal like 1.234(56)e-7 into value and error",
		Args:  cobra.ExactArgs(1),
		RunE:  opts.runParse,
	}
	parseCmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")

	evalCmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate the outputs of a YAML or JSON measurement document",
		Args:  cobra.ExactArgs(1),
		RunE:  opts.runEval,
	}
	evalCmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print one JSON object per output")
	evalCmd.Flags().BoolVar(&opts.correlation, "correlation", false, "Also print the correlation matrix of the outputs")

	rootCmd.AddCommand(fmtCmd, parseCmd, evalCmd)
	return rootCmd
}
