package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for missionscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missionscan",
		Short: "Scrape the naruto-arena.site mission corpus",
		Long: `missionscan crawls the ninja missions of naruto-arena.site and writes
a JSON document of every session, mission, requirement, reward and goal,
together with a manifest of the images those entries reference.

The site requires a login. The first scan opens a browser window for it and
saves the session to a storage state file; later runs reuse that file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
