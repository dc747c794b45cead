// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Assoplat Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/assoplat/assoplat/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the assoplat CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assoplat",
		Short: "assoplat - association platform backend",
		Long: `assoplat serves account registration, credential login and
user information over HTTP, with sessions stored in PostgreSQL.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSweepCmd())

	return cmd
}

// loadConfig reads the config file named by --config (or the default XDG
// location) and the command's explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.ResolvePath(configFile), cmd.Flags())
}
