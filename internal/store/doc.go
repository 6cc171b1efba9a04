// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package store provides the persistence collaborators of the credential
// lifecycle: the in-memory credential table, its CSV and PostgreSQL backing
// tables, and the matching append-only audit logs.
//
// Reads degrade. A missing, empty or malformed user table yields an empty
// table plus a diagnostic, and a bad row is skipped with a per-row
// diagnostic. Writes fail fast: save and audit errors are returned to the
// caller.
//
// Every save rewrites the whole table. A single active writer is assumed.
package store
