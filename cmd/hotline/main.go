// Package main provides the entry point for the hotline CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hotline-dev/hotline/cmd/hotline/commands"
	"github.com/hotline-dev/hotline/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "hotline",
		Short: "Hotline - live-edit change analysis",
		Long: `Hotline analyzes in-flight document edits against their committed
baseline and decides whether each edit can be hot-applied.

Commands:
  analyze   Analyze one baseline/current document pair
  session   Run a live-edit session over a git worktree`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewSessionCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "hotline %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
