// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package store

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/skywatch/skywatch/internal/auth"
)

// AuditTimeLayout is the timestamp format of audit log rows.
const AuditTimeLayout = "2006-01-02 15:04:05"

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

// CSVUserTable stores the user table as CSV with the header
// email,password,securityQuestion. Unknown extra columns are ignored on load
// and dropped on save.
type CSVUserTable struct {
	path string
}

var _ UserTable = (*CSVUserTable)(nil)

// NewCSVUserTable creates a table backed by the file at path.
func NewCSVUserTable(path string) *CSVUserTable {
	return &CSVUserTable{path: path}
}

// Path returns the backing file path.
func (t *CSVUserTable) Path() string {
	return t.path
}

// Load reads the file. A missing file, an empty file or a header without the
// required columns yields no users and one diagnostic. A row lacking a
// required value is skipped with a diagnostic. A row too short to reach the
// securityQuestion column counts as lacking it; an empty securityQuestion
// cell is kept, matching PostgresUserTable's NULL versus empty string.
func (t *CSVUserTable) Load(_ context.Context) LoadResult {
	var res LoadResult

	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Diagnostics = append(res.Diagnostics, oops.Code(CodeUnavailable).
				With("path", t.path).
				Errorf("user file %s not found, starting with an empty user table", t.path))
			return res
		}
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeUnavailable).
			With("path", t.path).
			Wrapf(err, "open user file"))
		return res
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
			With("path", t.path).
			Errorf("user file %s is empty or improperly formatted", t.path))
		return res
	}
	if err != nil {
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
			With("path", t.path).
			Wrapf(err, "read user file header"))
		return res
	}

	columns := indexColumns(header)
	if missing := missingColumns(columns); len(missing) > 0 {
		res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
			With("path", t.path).
			With("missing", missing).
			With("found", header).
			Errorf("user file is missing required columns: expected %s, found %s",
				strings.Join(requiredColumns, ", "), strings.Join(header, ", ")))
		return res
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, oops.Code(CodeMalformed).
				With("path", t.path).
				Wrapf(err, "read user file"))
			break
		}

		row, _ := r.FieldPos(0)
		user, diag := userFromRecord(record, columns, row)
		if diag != nil {
			res.Diagnostics = append(res.Diagnostics, diag)
			continue
		}
		res.Users = append(res.Users, user)
	}
	return res
}

// Save truncates the file and writes the header and one row per user.
func (t *CSVUserTable) Save(_ context.Context, users []*auth.User) error {
	if err := os.MkdirAll(filepath.Dir(t.path), dirPerm); err != nil {
		return oops.Code(CodeSaveFailed).With("path", t.path).Wrapf(err, "create user file directory")
	}

	f, err := os.OpenFile(t.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return oops.Code(CodeSaveFailed).With("path", t.path).Wrapf(err, "open user file")
	}

	w := csv.NewWriter(f)
	_ = w.Write(requiredColumns)
	for _, u := range users {
		_ = w.Write([]string{u.Email, u.PasswordHash, u.SecurityQuestion})
	}
	w.Flush()

	if err := w.Error(); err != nil {
		_ = f.Close()
		return oops.Code(CodeSaveFailed).With("path", t.path).Wrapf(err, "write user file")
	}
	if err := f.Close(); err != nil {
		return oops.Code(CodeSaveFailed).With("path", t.path).Wrapf(err, "close user file")
	}
	return nil
}

// indexColumns maps header names to positions. The first occurrence wins.
func indexColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	return columns
}

func missingColumns(columns map[string]int) []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// userFromRecord builds a user from one data row. A short row, an empty
// email or an empty password hash is reported as a skipped row. The
// security question may be empty.
func userFromRecord(record []string, columns map[string]int, row int) (*auth.User, error) {
	values := make(map[string]string, len(requiredColumns))
	var missing []string
	for _, name := range requiredColumns {
		i := columns[name]
		if i >= len(record) {
			missing = append(missing, name)
			continue
		}
		values[name] = record[i]
	}
	if _, ok := values["email"]; ok && values["email"] == "" {
		missing = append(missing, "email")
	}
	if _, ok := values["password"]; ok && values["password"] == "" {
		missing = append(missing, "password")
	}

	if len(missing) > 0 {
		email := values["email"]
		if email == "" {
			email = "unknown"
		}
		return nil, oops.Code(CodeRowSkipped).
			With("row", row).
			With("email", email).
			With("missing", missing).
			Errorf("missing data for user %s on row %d: %s", email, row, strings.Join(missing, ", "))
	}

	return &auth.User{
		Email:            values["email"],
		PasswordHash:     values["password"],
		SecurityQuestion: values["securityQuestion"],
	}, nil
}

// CSVAuditLog appends audit rows (timestamp, email, action) to a CSV file
// without a header. The file is opened per append.
type CSVAuditLog struct {
	path string
	now  func() time.Time
}

var _ auth.AuditLog = (*CSVAuditLog)(nil)

// NewCSVAuditLog creates an audit log backed by the file at path.
func NewCSVAuditLog(path string) *CSVAuditLog {
	return &CSVAuditLog{path: path, now: time.Now}
}

// WithClock returns a copy of the log using now for timestamps.
func (l *CSVAuditLog) WithClock(now func() time.Time) *CSVAuditLog {
	c := *l
	c.now = now
	return &c
}

// Path returns the backing file path.
func (l *CSVAuditLog) Path() string {
	return l.path
}

// Append writes one row stamped with the local time.
func (l *CSVAuditLog) Append(_ context.Context, email, action string) error {
	if err := os.MkdirAll(filepath.Dir(l.path), dirPerm); err != nil {
		return oops.Code(CodeAuditFailed).With("path", l.path).Wrapf(err, "create audit directory")
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, filePerm)
	if err != nil {
		return oops.Code(CodeAuditFailed).With("path", l.path).Wrapf(err, "open audit log")
	}

	w := csv.NewWriter(f)
	_ = w.Write([]string{l.now().Format(AuditTimeLayout), email, action})
	w.Flush()

	if err := w.Error(); err != nil {
		_ = f.Close()
		return oops.Code(CodeAuditFailed).With("path", l.path).With("action", action).Wrapf(err, "write audit log")
	}
	if err := f.Close(); err != nil {
		return oops.Code(CodeAuditFailed).With("path", l.path).Wrapf(err, "close audit log")
	}
	return nil
}
