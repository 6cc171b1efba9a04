// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the XDG directories at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, name := range []string{"SKYWATCH_DATA_DIR", "SKYWATCH_STORE_DRIVER", "SKYWATCH_DATABASE_URL", "SKYWATCH_API_KEY",
		"SKYWATCH_LOG_LEVEL", "SKYWATCH_LOG_FORMAT", "SKYWATCH_LOG_FILE", "SKYWATCH_METRICS_FILE"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	return dir
}

func lines(s ...string) string {
	return strings.Join(s, "\n") + "\n"
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"migrate", "schema", "config"})
}

func TestRootCmd_Flags(t *testing.T) {
	cmd := NewRootCmd()

	for _, name := range []string{"config", "data-dir", "store-driver", "database-url", "api-key", "log-level", "metrics-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	isolate(t)
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	assert.Error(t, cmd.Execute())
}
