// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

// Login outcome labels passed to MetricsRecorder.LoginAttempt.
const (
	LoginResultSuccess      = "success"
	LoginResultFailure      = "failure"
	LoginResultUnknownEmail = "unknown_email"
	LoginResultCaptcha      = "captcha_failed"
	LoginResultLockedOut    = "locked_out"
)

// Reset outcome labels passed to MetricsRecorder.PasswordReset.
const (
	ResetResultSuccess     = "success"
	ResetResultWrongAnswer = "wrong_answer"
)

// MetricsRecorder receives credential lifecycle events.
type MetricsRecorder interface {
	LoginAttempt(result string)
	AccountCreated()
	PasswordReset(result string)
}

type nopMetrics struct{}

func (nopMetrics) LoginAttempt(string)  {}
func (nopMetrics) AccountCreated()      {}
func (nopMetrics) PasswordReset(string) {}
