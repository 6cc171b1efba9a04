// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package observability_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/observability"
	"github.com/skywatch/skywatch/pkg/errutil"
)

var _ auth.MetricsRecorder = (*observability.Metrics)(nil)

func TestMetrics_Counters(t *testing.T) {
	m := observability.NewMetrics(prometheus.NewRegistry())

	m.LoginAttempt(auth.LoginResultFailure)
	m.LoginAttempt(auth.LoginResultFailure)
	m.LoginAttempt(auth.LoginResultSuccess)
	m.AccountCreated()
	m.PasswordReset(auth.ResetResultWrongAnswer)
	m.Lookup(nil)
	m.Lookup(errors.New("boom"))
	m.Lookup(errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(auth.LoginResultFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LoginAttemptsTotal.WithLabelValues(auth.LoginResultSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AccountsCreatedTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.PasswordResetsTotal.WithLabelValues(auth.ResetResultWrongAnswer)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(observability.LookupSuccess)), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.LookupsTotal.WithLabelValues(observability.LookupFailure)), 0)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	observability.NewMetrics(reg)
	assert.Panics(t, func() { observability.NewMetrics(reg) })
}

func TestNewRegistry_GathersRuntimeMetrics(t *testing.T) {
	reg, m := observability.NewRegistry()
	m.AccountCreated()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
	assert.True(t, names["skywatch_accounts_created_total"])
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	m.LoginAttempt(auth.LoginResultLockedOut)

	path := filepath.Join(t.TempDir(), "metrics", "skywatch.prom")
	require.NoError(t, observability.WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `skywatch_login_attempts_total{result="locked_out"} 1`)
}

func TestWriteTextfile_Unwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := observability.WriteTextfile(filepath.Join(blocker, "skywatch.prom"), prometheus.NewRegistry())
	errutil.AssertErrorCode(t, err, "METRICS_WRITE_FAILED")
}
