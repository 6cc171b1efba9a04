// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Command gen-schema writes the config and astronomy response JSON Schemas
// to the schemas directory.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/config"
)

var outputs = []struct {
	file string
	gen  func() ([]byte, error)
}{
	{"config.schema.json", config.GenerateSchema},
	{"astronomy-response.schema.json", astronomy.GenerateResponseSchema},
}

func main() {
	dir := "schemas"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	for _, o := range outputs {
		schema, err := o.gen()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", o.file, err)
			os.Exit(1)
		}

		outPath := filepath.Join(dir, o.file)
		if err := os.WriteFile(outPath, schema, 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Generated %s\n", outPath)
	}
}
