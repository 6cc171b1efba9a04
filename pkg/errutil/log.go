// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package errutil holds helpers for oops errors: structured logging, code
// lookup and test assertions.
package errutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. See LogErrorAt.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorAt(context.Background(), logger, slog.LevelError, msg, err)
}

// LogErrorAt logs err at level. For oops errors the code, hint and context
// are logged as separate attributes; other errors are logged as a string.
func LogErrorAt(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		logger.Log(ctx, level, msg, "error", err)
		return
	}

	attrs := []any{"error", oopsErr.Error()}
	if code := Code(err); code != "" {
		attrs = append(attrs, "code", code)
	}
	if hint := oopsErr.Hint(); hint != "" {
		attrs = append(attrs, "hint", hint)
	}
	if errCtx := oopsErr.Context(); len(errCtx) > 0 {
		attrs = append(attrs, "context", errCtx)
	}
	logger.Log(ctx, level, msg, attrs...)
}

// Code returns the oops code carried by err, or "" when there is none.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	switch code := oopsErr.Code().(type) {
	case nil:
		return ""
	case string:
		return code
	default:
		return fmt.Sprint(code)
	}
}

// HasCode reports whether err carries code.
func HasCode(err error, code string) bool {
	return code != "" && Code(err) == code
}
