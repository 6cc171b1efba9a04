// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package observability provides Prometheus metrics for credential and
// lookup events, exported as a textfile when the process exits.
package observability

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"
)

// Lookup outcome labels.
const (
	LookupSuccess = "success"
	LookupFailure = "failure"
)

// Metrics contains the Skywatch counters. It satisfies auth.MetricsRecorder.
type Metrics struct {
	LoginAttemptsTotal   *prometheus.CounterVec
	AccountsCreatedTotal prometheus.Counter
	PasswordResetsTotal  *prometheus.CounterVec
	LookupsTotal         *prometheus.CounterVec
}

// NewMetrics creates and registers the Skywatch counters.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_login_attempts_total",
				Help: "Total number of login attempts by result",
			},
			[]string{"result"},
		),
		AccountsCreatedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "skywatch_accounts_created_total",
				Help: "Total number of accounts created",
			},
		),
		PasswordResetsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_password_resets_total",
				Help: "Total number of password reset attempts by result",
			},
			[]string{"result"},
		),
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "skywatch_astronomy_lookups_total",
				Help: "Total number of astronomy lookups by status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(m.LoginAttemptsTotal)
	reg.MustRegister(m.AccountsCreatedTotal)
	reg.MustRegister(m.PasswordResetsTotal)
	reg.MustRegister(m.LookupsTotal)

	return m
}

// NewRegistry creates a registry with the Go runtime and process collectors
// and the Skywatch counters.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	// Create a new registry to avoid polluting the global one
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return registry, NewMetrics(registry)
}

// LoginAttempt counts one login outcome.
func (m *Metrics) LoginAttempt(result string) {
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// AccountCreated counts one new account.
func (m *Metrics) AccountCreated() {
	m.AccountsCreatedTotal.Inc()
}

// PasswordReset counts one reset outcome.
func (m *Metrics) PasswordReset(result string) {
	m.PasswordResetsTotal.WithLabelValues(result).Inc()
}

// Lookup counts one astronomy lookup. A nil err is a success.
func (m *Metrics) Lookup(err error) {
	status := LookupSuccess
	if err != nil {
		status = LookupFailure
	}
	m.LookupsTotal.WithLabelValues(status).Inc()
}

// WriteTextfile writes every metric gathered by g to path in the Prometheus
// text exposition format, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return oops.Code("METRICS_WRITE_FAILED").With("path", path).Wrap(err)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return oops.Code("METRICS_WRITE_FAILED").With("path", path).Wrap(err)
	}
	return nil
}
