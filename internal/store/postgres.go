// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/skywatch/skywatch/internal/auth"
)

// poolIface is the subset of *pgxpool.Pool used by the PostgreSQL tables.
// pgxmock.PgxPoolIface satisfies it in tests.
type poolIface interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Ping retry schedule for Connect.
const (
	connectRetries = 3
	connectBackoff = 200 * time.Millisecond
)

// Connect opens a connection pool and verifies it with a ping. A failed
// ping is retried with exponential backoff before giving up.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code(CodeUnavailable).With("operation", "create pool").Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectRetries, retry.NewExponential(connectBackoff))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code(CodeUnavailable).
			With("operation", "ping database").
			With("retries", connectRetries).
			Wrap(err)
	}
	return pool, nil
}

// PostgresUserTable stores the user table in the users relation. Save
// rewrites the whole relation inside one transaction.
type PostgresUserTable struct {
	pool poolIface
}

var _ UserTable = (*PostgresUserTable)(nil)

// NewPostgresUserTable creates a user table on pool.
func NewPostgresUserTable(pool poolIface) *PostgresUserTable {
	return &PostgresUserTable{pool: pool}
}

// Load reads every user in stored order. A missing relation or an
// unreachable database yields no users and a CodeUnavailable diagnostic.
// A row with a NULL or empty password hash, or a NULL security question,
// is skipped. An empty security question is kept. This matches
// CSVUserTable, where NULL corresponds to a row too short to have the cell.
func (t *PostgresUserTable) Load(ctx context.Context) LoadResult {
	var res LoadResult

	rows, err := t.pool.Query(ctx,
		`SELECT email, password_hash, security_question FROM users ORDER BY ordinal, email`)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			res.Diagnostics = append(res.Diagnostics, oops.Code(CodeUnavailable).
				With("table", "users").
				Hint("run 'skywatch migrate up'").
				Wrapf(err, "users table does not exist, starting with an empty user table"))
			return res
		}
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeUnavailable).
			With("operation", "query users").
			Wrap(err))
		return res
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		row++
		var email string
		var hash, question *string
		if err := rows.Scan(&email, &hash, &question); err != nil {
			res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
				With("operation", "scan user row").
				With("row", row).
				Wrap(err))
			return res
		}

		var missing []string
		if hash == nil || *hash == "" {
			missing = append(missing, "password")
		}
		if question == nil {
			missing = append(missing, "securityQuestion")
		}
		if len(missing) > 0 {
			res.Diagnostics = append(res.Diagnostics, oops.Code(CodeRowSkipped).
				With("row", row).
				With("email", email).
				With("missing", missing).
				Errorf("missing data for user %s on row %d", email, row))
			continue
		}

		res.Users = append(res.Users, &auth.User{
			Email:            email,
			PasswordHash:     *hash,
			SecurityQuestion: *question,
		})
	}
	if err := rows.Err(); err != nil {
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
			With("operation", "iterate users").
			Wrap(err))
	}
	return res
}

// Save replaces the users relation with users in one transaction.
func (t *PostgresUserTable) Save(ctx context.Context, users []*auth.User) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return oops.Code(CodeSaveFailed).With("operation", "begin transaction").Wrap(err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM users`); err != nil {
		rollback(ctx, tx)
		return oops.Code(CodeSaveFailed).With("operation", "clear users").Wrap(err)
	}

	for i, u := range users {
		_, err := tx.Exec(ctx,
			`INSERT INTO users (email, password_hash, security_question, ordinal) VALUES ($1, $2, $3, $4)`,
			u.Email, u.PasswordHash, u.SecurityQuestion, i)
		if err != nil {
			rollback(ctx, tx)
			return oops.Code(CodeSaveFailed).
				With("operation", "insert user").
				With("email", u.Email).
				Wrap(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code(CodeSaveFailed).With("operation", "commit transaction").Wrap(err)
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	_ = tx.Rollback(ctx) //nolint:errcheck // the original error takes precedence
}

// PostgresAuditLog appends audit rows to the audit_log relation.
type PostgresAuditLog struct {
	pool poolIface
	now  func() time.Time
}

var _ auth.AuditLog = (*PostgresAuditLog)(nil)

// NewPostgresAuditLog creates an audit log on pool.
func NewPostgresAuditLog(pool poolIface) *PostgresAuditLog {
	return &PostgresAuditLog{pool: pool, now: time.Now}
}

// WithClock returns a copy of the log using now for timestamps.
func (l *PostgresAuditLog) WithClock(now func() time.Time) *PostgresAuditLog {
	c := *l
	c.now = now
	return &c
}

// Append inserts one audit row.
func (l *PostgresAuditLog) Append(ctx context.Context, email, action string) error {
	_, err := l.pool.Exec(ctx,
		`INSERT INTO audit_log (occurred_at, email, action) VALUES ($1, $2, $3)`,
		l.now(), email, action)
	if err != nil {
		return oops.Code(CodeAuditFailed).
			With("operation", "insert audit row").
			With("action", action).
			Wrap(err)
	}
	return nil
}
