// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package store

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/pkg/errutil"
)

// requiredColumns are the user table columns every backing table must carry.
var requiredColumns = []string{"email", "password", "securityQuestion"}

// LoadResult is the outcome of reading a user table. Loading never fails:
// problems are reported as Diagnostics carrying CodeUnavailable,
// CodeMalformed or CodeRowSkipped, and Users holds whatever was readable.
type LoadResult struct {
	Users       []*auth.User
	Diagnostics []error
}

// UserTable is the persistent backing of the credential table.
type UserTable interface {
	// Load reads every record in stored order.
	Load(ctx context.Context) LoadResult

	// Save replaces the stored table with users, in order.
	Save(ctx context.Context, users []*auth.User) error
}

// Credentials is the in-memory credential table. It is built once from a
// UserTable and rewrites the whole table on every mutation.
// It is not safe for concurrent use.
type Credentials struct {
	table  UserTable
	logger *slog.Logger
	users  map[string]*auth.User
	order  []string
	diags  []error
}

var _ auth.CredentialStore = (*Credentials)(nil)

// OpenCredentials loads table into memory. Load diagnostics are logged and
// kept for Diagnostics.
func OpenCredentials(ctx context.Context, table UserTable, logger *slog.Logger) *Credentials {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Credentials{
		table:  table,
		logger: logger,
		users:  make(map[string]*auth.User),
	}

	res := table.Load(ctx)
	for _, u := range res.Users {
		c.set(u)
	}
	c.diags = res.Diagnostics

	for _, diag := range c.diags {
		level := slog.LevelError
		if oopsErr, ok := oops.AsOops(diag); ok && oopsErr.Code() == CodeUnavailable {
			level = slog.LevelWarn
		}
		errutil.LogErrorAt(ctx, logger, level, "user table diagnostic", diag)
	}
	logger.DebugContext(ctx, "credential table loaded", "event", "credentials_loaded", "users", len(c.order))
	return c
}

// Get returns a copy of the account for email, or auth.ErrNotFound.
func (c *Credentials) Get(email string) (*auth.User, error) {
	u, ok := c.users[email]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return u.Clone(), nil
}

// Exists reports whether an account exists for email.
func (c *Credentials) Exists(email string) bool {
	_, ok := c.users[email]
	return ok
}

// Put inserts or replaces the account and saves the whole table. On a save
// failure the in-memory table keeps the change.
func (c *Credentials) Put(ctx context.Context, user *auth.User) error {
	c.set(user)
	if err := c.table.Save(ctx, c.Users()); err != nil {
		c.logger.ErrorContext(ctx, "credential table save failed",
			"event", "credentials_save_failed", "email", user.Email, "error", err)
		return err
	}
	return nil
}

// Users returns copies of every account in insertion order.
func (c *Credentials) Users() []*auth.User {
	users := make([]*auth.User, 0, len(c.order))
	for _, email := range c.order {
		users = append(users, c.users[email].Clone())
	}
	return users
}

// Len returns the number of accounts.
func (c *Credentials) Len() int {
	return len(c.order)
}

// Diagnostics returns the problems reported while loading.
func (c *Credentials) Diagnostics() []error {
	return c.diags
}

// set stores a copy of u. A later record for the same email replaces the
// earlier one but keeps its position.
func (c *Credentials) set(u *auth.User) {
	if _, ok := c.users[u.Email]; !ok {
		c.order = append(c.order, u.Email)
	}
	c.users[u.Email] = u.Clone()
}
