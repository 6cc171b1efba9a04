// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package store

import "github.com/samber/oops"

// Error codes attached to diagnostics and errors from this package.
const (
	CodeUnavailable = "STORE_UNAVAILABLE"
	CodeMalformed   = "STORE_MALFORMED"
	CodeRowSkipped  = "STORE_ROW_SKIPPED"
	CodeSaveFailed  = "STORE_SAVE_FAILED"
	CodeAuditFailed = "AUDIT_APPEND_FAILED"
)

// IsDiagnostic reports whether err is a non-fatal load diagnostic.
func IsDiagnostic(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case CodeUnavailable, CodeMalformed, CodeRowSkipped:
		return true
	default:
		return false
	}
}
