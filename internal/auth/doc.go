// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package auth implements the skywatch credential lifecycle.
//
// # Primitives
//
// The leaf components have no dependencies:
//   - ValidatePassword / IsStrong - password strength policy
//   - ValidateEmail and EmailPolicy - email syntax and optional domain allow-list
//   - PasswordHasher (BcryptHasher) - salted one-way hashing
//   - ChallengeGenerator - CAPTCHA codes
//
// # Service
//
// Service orchestrates account creation, login and password recovery on top of
// a CredentialStore and an AuditLog. It never reads from a terminal itself;
// interactive input arrives through the LoginPrompter and RecoveryPrompter
// interfaces implemented by the shell.
//
// A Service moves through the states Anonymous, Authenticated, LockedOut and
// RecoveryInProgress. Login resets the per-invocation attempt counter and the
// state to Anonymous each time it is called.
package auth
