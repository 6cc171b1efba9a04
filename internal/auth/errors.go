// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested account does not exist.
var ErrNotFound = errors.New("not found")

// Error codes attached to oops errors returned by this package.
const (
	CodeInvalidEmail       = "AUTH_INVALID_EMAIL"
	CodeDuplicateAccount   = "AUTH_DUPLICATE_ACCOUNT"
	CodeWeakPassword       = "AUTH_WEAK_PASSWORD"
	CodeUnknownEmail       = "AUTH_UNKNOWN_EMAIL"
	CodeCaptchaFailed      = "AUTH_CAPTCHA_FAILED"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeMaxAttempts        = "AUTH_MAX_ATTEMPTS_EXCEEDED"
	CodeWrongAnswer        = "AUTH_WRONG_ANSWER"
	CodeNotAuthenticated   = "AUTH_NOT_AUTHENTICATED"
	CodeEmptyPassword      = "AUTH_EMPTY_PASSWORD"
	CodeInvalidHash        = "AUTH_INVALID_HASH"
	CodeHashFailed         = "AUTH_HASH_FAILED"
	CodeInvalidPolicy      = "AUTH_INVALID_POLICY"
)
