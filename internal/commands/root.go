package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the full command tree. A fresh tree per execution keeps
// flag values from leaking between runs.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rangelog",
		Short: "A range session logger",
		Long: `rangelog is a command-line logbook for range days.
Time a session with a pausable clock, log runs per firearm with round and
malfunction counts, and review your shooting over time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newFirearmCmd())
	rootCmd.AddCommand(newAmmoCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newLiveCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.SetHelpCommand(newHelpCmd())
	return rootCmd
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printf(cmd, "rangelog %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

// printf writes user-facing output to the command's stdout
func printf(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}
