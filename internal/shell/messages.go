// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package shell

import (
	"fmt"

	"github.com/samber/oops"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/store"
)

// Fixed user-facing messages.
const (
	msgInvalidChoice  = "Invalid choice. Please try again."
	msgGoodbye        = "Goodbye!"
	msgLoginOK        = "Login successful!"
	msgAccountCreated = "Account created successfully!"
	msgResetOK        = "Password reset successful!"
	msgWeakPassword   = "Password must be at least 8 characters long and contain uppercase, lowercase, digit, and special character."
	msgNoData         = "Unable to retrieve astronomy data."
)

// message renders err for the user. Errors without a known code are shown
// with their text.
func message(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return "Error: " + err.Error()
	}

	errCtx := oopsErr.Context()
	switch oopsErr.Code() {
	case auth.CodeInvalidEmail:
		if domain, ok := errCtx["domain"]; ok {
			return fmt.Sprintf("Email domain %v is not allowed. Please try again.", domain)
		}
		return "Invalid email format. Please try again."
	case auth.CodeDuplicateAccount:
		return "An account with this email already exists."
	case auth.CodeWeakPassword:
		return msgWeakPassword
	case auth.CodeUnknownEmail:
		return "Email not found."
	case auth.CodeCaptchaFailed:
		return "CAPTCHA verification failed. Please try again."
	case auth.CodeInvalidCredentials:
		return fmt.Sprintf("Invalid password. %v attempts remaining.", errCtx["remaining"])
	case auth.CodeMaxAttempts:
		return "Maximum login attempts exceeded. Exiting."
	case auth.CodeWrongAnswer:
		return "Incorrect answer to security question."
	case auth.CodeNotAuthenticated:
		return "You are not logged in."
	case astronomy.CodeLookupFailed:
		if astronomy.Stage(err) == astronomy.StageDecode {
			return "Error: Invalid data format in API response: " + oopsErr.Error()
		}
		return "Error fetching data: " + oopsErr.Error() + "\n" + msgNoData
	case store.CodeUnavailable:
		return "Warning: " + oopsErr.Error()
	default:
		return "Error: " + oopsErr.Error()
	}
}
