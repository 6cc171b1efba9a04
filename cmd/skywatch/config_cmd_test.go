// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/skywatch/pkg/errutil"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInit_DefaultPath(t *testing.T) {
	home := isolate(t)
	want := filepath.Join(home, "config", "skywatch", "config.yaml")

	out, err := runRoot(t, "config", "init")
	require.NoError(t, err)

	assert.Contains(t, out, "Wrote "+want)
	data, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "driver: csv")

	info, err := os.Stat(want)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigInit_ExistingFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "skywatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o600))

	_, err := runRoot(t, "config", "init", "--config", path)
	errutil.AssertErrorCode(t, err, "CONFIG_EXISTS")

	_, err = runRoot(t, "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level: info")
}

func TestConfigShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "skywatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: csv\n  users_file: accounts.csv\n"), 0o600))
	t.Setenv("SKYWATCH_API_KEY", "super-secret")

	out, err := runRoot(t, "config", "show", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	assert.Contains(t, out, "users_file: accounts.csv")
	assert.Contains(t, out, "level: debug")
	assert.Contains(t, out, "api_key: REDACTED")
	assert.NotContains(t, out, "super-secret")
}

func TestConfigShow_InvalidFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "skywatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: sqlite\n"), 0o600))

	_, err := runRoot(t, "config", "show", "--config", path)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}
