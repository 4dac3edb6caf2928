// Package cmd defines and implements the CLI commands for the
// trending-tracker executable.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trending-tracker",
		Short: "Captures the GitHub trending page as a daily snapshot.",
		Long: `trending-tracker fetches the GitHub trending page once, extracts the
listed repositories (name, description, language, stars) and stores them as a
dated JSON snapshot. A date that already has a snapshot is never overwritten,
so the command is safe to run from cron or any other scheduler.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	cmd.AddCommand(newCaptureCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() error {
	return newRootCmd().Execute()
}
