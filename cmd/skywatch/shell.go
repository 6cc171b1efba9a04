// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/config"
	"github.com/skywatch/skywatch/internal/logging"
	"github.com/skywatch/skywatch/internal/observability"
	"github.com/skywatch/skywatch/internal/shell"
	"github.com/skywatch/skywatch/internal/store"
	"github.com/skywatch/skywatch/pkg/errutil"
)

const serviceName = "skywatch"

// backend is the opened user table and audit log.
type backend struct {
	table store.UserTable
	audit auth.AuditLog
	close func()
}

func runShell(cmd *cobra.Command, deps *Deps) error {
	deps = deps.withDefaults()
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogging(cfg, deps.Version, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	registry, metrics := observability.NewRegistry()

	b, err := openBackend(ctx, cfg, deps)
	if err != nil {
		errutil.LogError(logger, "open storage failed", err)
		return err
	}
	defer b.close()

	creds := store.OpenCredentials(ctx, b.table, logger)

	policy, err := auth.NewEmailPolicy(cfg.Auth.EmailDomains)
	if err != nil {
		return err
	}
	svc, err := auth.NewService(creds, b.audit,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		deps.Challenges,
		auth.WithLogger(logger),
		auth.WithMaxAttempts(cfg.Auth.MaxLoginAttempts),
		auth.WithEmailPolicy(policy),
		auth.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	clientOpts := append([]astronomy.Option{
		astronomy.WithTimeout(time.Duration(cfg.Astronomy.TimeoutSeconds) * time.Second),
		astronomy.WithLogger(logger),
	}, deps.ClientOptions...)
	client, err := astronomy.NewClient(cfg.Astronomy.Endpoint, cfg.Astronomy.APIKey, clientOpts...)
	if err != nil {
		return err
	}
	defer client.Close()

	in := cmd.InOrStdin()
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	sh, err := shell.New(svc, client, in, cmd.OutOrStdout(),
		shell.WithLogger(logger),
		shell.WithLookupMetrics(metrics),
		shell.WithTerminal(fd),
	)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "shell started",
		"event", "shell_started",
		"driver", cfg.Store.Driver,
		"users", creds.Len(),
	)
	sh.ReportDiagnostics(creds.Diagnostics())

	runErr := sh.Run(ctx)
	if runErr != nil {
		errutil.LogError(logger, "shell stopped", runErr)
	}

	if cfg.Metrics.File != "" {
		if err := observability.WriteTextfile(cfg.Path(cfg.Metrics.File), registry); err != nil {
			errutil.LogErrorAt(ctx, logger, slog.LevelWarn, "write metrics failed", err)
		}
	}
	return runErr
}

// setupLogging creates the logger. Logs go to w unless log.file is set.
func setupLogging(cfg *config.Config, version string, w io.Writer) (*slog.Logger, func(), error) {
	closeFn := func() {}
	if cfg.Log.File != "" {
		f, err := logging.OpenFile(cfg.Path(cfg.Log.File))
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger, err := logging.Setup(serviceName, version, cfg.Log.Format, cfg.Log.Level, w)
	if err != nil {
		closeFn()
		return nil, nil, oops.With("operation", "set up logging").Wrap(err)
	}
	return logger, closeFn, nil
}

// openBackend opens the user table and audit log for the configured driver.
func openBackend(ctx context.Context, cfg *config.Config, deps *Deps) (*backend, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := deps.PoolFactory(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, oops.With("operation", "connect to database").Wrap(err)
		}
		return &backend{
			table: store.NewPostgresUserTable(pool),
			audit: store.NewPostgresAuditLog(pool),
			close: pool.Close,
		}, nil
	default:
		return &backend{
			table: store.NewCSVUserTable(cfg.UsersPath()),
			audit: store.NewCSVAuditLog(cfg.AuditPath()),
			close: func() {},
		}, nil
	}
}
