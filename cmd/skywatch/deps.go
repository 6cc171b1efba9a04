// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/store"
)

// Deps contains injectable dependencies for the shell command.
// All fields with nil values will use their default implementations.
type Deps struct {
	// PoolFactory opens the PostgreSQL pool for the postgres driver.
	// Default: store.Connect
	PoolFactory func(ctx context.Context, url string) (*pgxpool.Pool, error)

	// Challenges generates login CAPTCHAs.
	// Default: auth.NewChallengeGenerator
	Challenges *auth.ChallengeGenerator

	// ClientOptions are appended to the astronomy client options.
	ClientOptions []astronomy.Option

	// Version is logged with every record.
	// Default: the build version
	Version string
}

func (d *Deps) withDefaults() *Deps {
	out := Deps{}
	if d != nil {
		out = *d
	}
	if out.PoolFactory == nil {
		out.PoolFactory = store.Connect
	}
	if out.Challenges == nil {
		out.Challenges = auth.NewChallengeGenerator()
	}
	if out.Version == "" {
		out.Version = version
	}
	return &out
}
