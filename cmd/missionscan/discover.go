package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Print the session ids a scan would crawl",
		Long: `Discover prints the session ids a scan would crawl, one per line.

Ids come from the ?id= query of the saved pages in the cache directory.
When the directory holds no pages, the live session index is read instead,
using the saved login if there is one.`,
		Args: cobra.NoArgs,
		RunE: runDiscoverCmd,
	}

	addSiteFlags(cmd)
	addDiscoveryFlags(cmd)

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	state, err := loadStateIfPresent(newAuthManager(cmd, cfg, logger))
	if err != nil {
		return fmt.Errorf("failed to load browser state: %w", err)
	}

	fetcher, err := newFetcher(cfg, state, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := fetcher.Close(); cerr != nil {
			logger.Debug("failed to close fetcher", "error", cerr)
		}
	}()

	ids, err := newDiscoverer(fetcher, cfg, logger).Discover(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
