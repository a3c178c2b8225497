// Package cli implements the chargesol command line tool: an interactive
// station registration wizard plus helpers for drafts and tokens.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chargesol/backend/libs/logging"
)

// Root returns the root command for the chargesol CLI.
func Root() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "chargesol",
		Short:         "Register EV charging stations on ChargeSol",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")

	logger := func() *zap.Logger { return logging.NewConsoleLogger(verbose) }

	cmd.AddCommand(Register(logger))
	cmd.AddCommand(Validate())
	cmd.AddCommand(Token())

	return cmd
}
