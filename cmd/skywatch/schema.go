// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/config"
)

// schemaGenerators maps schema names to their generators.
var schemaGenerators = map[string]func() ([]byte, error){
	"config":    config.GenerateSchema,
	"astronomy": astronomy.GenerateResponseSchema,
}

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema {config|astronomy}",
		Short:     "Print a JSON Schema",
		Long:      `Print the JSON Schema for the config file or for the astronomy API response.`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"config", "astronomy"},
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, ok := schemaGenerators[args[0]]
			if !ok {
				return oops.Code("UNKNOWN_SCHEMA").With("name", args[0]).Errorf("unknown schema %q", args[0])
			}
			data, err := gen()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err //nolint:wrapcheck // stdout write
		},
	}
}
