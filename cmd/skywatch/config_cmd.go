// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/skywatch/skywatch/internal/config"
	"github.com/skywatch/skywatch/internal/xdg"
)

// NewConfigCmd creates the config subcommand.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Astronomy.APIKey != "" {
				cfg.Astronomy.APIKey = "REDACTED"
			}
			data, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err //nolint:wrapcheck // stdout write
		},
	})

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return err //nolint:wrapcheck // flag lookup on a registered flag
	}
	if path == "" {
		if path, err = xdg.ConfigFile(); err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return oops.Code("CONFIG_EXISTS").
				With("path", path).
				Hint("pass --force to overwrite").
				Errorf("config file %s already exists", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return oops.With("path", path).Wrap(err)
		}
	}

	cfg := config.Default()
	data, err := cfg.YAML()
	if err != nil {
		return err
	}

	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
