// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/assoplat/assoplat/internal/config"
	"github.com/assoplat/assoplat/internal/session"
	sessionpg "github.com/assoplat/assoplat/internal/session/postgres"
)

// NewSweepCmd creates the sweep subcommand.
func NewSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete expired sessions once",
		Long: `Delete every session whose expiry has passed, then exit.
Suitable for cron when the in-process sweeper is disabled.`,
		Args: cobra.NoArgs,
		RunE: runSweep,
	}
	cmd.Flags().String("database-url", "", "PostgreSQL URL (default: $"+config.DatabaseURLEnv+")")
	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (--database-url, database_url or $%s)", config.DatabaseURLEnv)
	}

	ctx := cmd.Context()
	pool, err := newPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	defer pool.Close()

	n, err := session.NewSweeper(sessionpg.NewSessionRepository(pool), 0).SweepOnce(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Deleted %d expired session(s)\n", n)
	return nil
}
