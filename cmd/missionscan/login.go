package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/missionscan/internal/auth"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in through a browser window and save the session",
		Long: `Login opens a visible browser window at the site root. Log in there,
then press ENTER in the terminal. The cookies and local storage of the
browser are saved to the storage state file, which scan loads on every run.

A saved session is kept unless --force is given.

Examples:
  # Log in once
  missionscan login

  # Replace an expired session
  missionscan login --force`,
		Args: cobra.NoArgs,
		RunE: runLoginCmd,
	}

	addSiteFlags(cmd)
	cmd.Flags().BoolP("force", "f", false,
		"Log in again even when a storage state file exists")

	return cmd
}

// runLoginCmd executes the login command.
func runLoginCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg)
	ctx, cancel := signalContext(cmd.Context(), logger)
	defer cancel()

	manager := newAuthManager(cmd, cfg, logger)

	status, err := manager.Status()
	if err != nil {
		return err
	}
	if status == auth.Authenticated && !force {
		fmt.Fprintf(cmd.OutOrStdout(), "Already logged in (%s). Use --force to log in again.\n", manager.StatePath())
		return nil
	}

	if err := manager.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	return nil
}
