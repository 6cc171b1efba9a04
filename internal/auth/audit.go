// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import "context"

// Audit action descriptions.
const (
	ActionAccountCreated      = "Account created"
	ActionLoginSucceeded      = "Successful login"
	ActionLoginFailed         = "Failed login attempt"
	ActionPasswordReset       = "Password reset"
	ActionPasswordResetFailed = "Failed password reset attempt"
	ActionLogout              = "Logout"
)

// AuditLog appends timestamped action records. Entries are never read back.
// An Append error is fatal to the operation that produced it.
type AuditLog interface {
	Append(ctx context.Context, email, action string) error
}

// LookupAction returns the audit description for an astronomy lookup.
func LookupAction(location string) string {
	return "Fetched astronomy data for " + location
}
