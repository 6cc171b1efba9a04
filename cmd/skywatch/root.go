// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/skywatch/skywatch/internal/config"
)

// NewRootCmd creates the root command. Without a subcommand it runs the
// interactive shell.
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skywatch",
		Short: "Skywatch - sunrise, sunset and day length for any place",
		Long: `Skywatch is an interactive terminal tool. Create an account, log in
with a password and a CAPTCHA, and look up astronomy data for any city.
Accounts live in a CSV file or a PostgreSQL database; every security
relevant action is written to an audit log.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, deps)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file path (default: XDG_CONFIG_HOME/skywatch/config.yaml)")
	config.RegisterFlags(cmd.PersistentFlags(), config.Default())

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig builds the configuration from the command's flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err //nolint:wrapcheck // flag lookup on a registered flag
	}
	return config.Load(path, cmd.Flags())
}
