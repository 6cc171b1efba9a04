// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// User is a stored account record, keyed by email.
//
// SecurityQuestion is both the recovery prompt and the expected recovery
// answer: recovery compares the typed answer against this text.
type User struct {
	Email            string
	PasswordHash     string
	SecurityQuestion string
}

// NewUser creates a validated User. The email must be syntactically valid and
// the hash non-empty. The security question may be empty.
func NewUser(email, passwordHash, securityQuestion string) (*User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code(CodeInvalidHash).
			With("email", email).
			Errorf("password hash cannot be empty")
	}
	return &User{
		Email:            email,
		PasswordHash:     passwordHash,
		SecurityQuestion: securityQuestion,
	}, nil
}

// Clone returns a copy of the user.
func (u *User) Clone() *User {
	c := *u
	return &c
}

// Identity is the result of a successful login.
type Identity struct {
	Email           string
	SessionID       ulid.ULID
	AuthenticatedAt time.Time
}

// CredentialStore is the in-memory account table owned by the Service.
// Writes persist the whole table before returning.
type CredentialStore interface {
	// Get returns a copy of the account for email or ErrNotFound.
	Get(email string) (*User, error)

	// Exists reports whether an account exists for email.
	Exists(email string) bool

	// Put inserts or replaces the account and persists the table.
	// A persistence failure leaves the in-memory table updated.
	Put(ctx context.Context, user *User) error
}
