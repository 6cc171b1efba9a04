// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"
)

// RecoverPassword runs interactive password recovery for email. The user
// answers the stored security question, then enters new passwords until one
// satisfies the policy. The Service returns to Anonymous afterwards.
func (s *Service) RecoverPassword(ctx context.Context, email string, p RecoveryPrompter) error {
	s.state = StateRecoveryInProgress
	s.identity = nil
	defer func() { s.state = StateAnonymous }()

	user, err := s.lookup(email)
	if err != nil {
		return err
	}

	answer, err := p.Answer(ctx, user.SecurityQuestion)
	if err != nil {
		return oops.With("operation", "read security answer").Wrap(err)
	}
	if err := s.checkAnswer(ctx, user, answer); err != nil {
		return err
	}

	for {
		candidate, err := p.NewPassword(ctx)
		if err != nil {
			return oops.With("operation", "read new password").Wrap(err)
		}
		if err := ValidatePassword(candidate); err != nil {
			p.Notify(ctx, err)
			continue
		}
		return s.replacePassword(ctx, user, candidate)
	}
}

// VerifySecurityAnswer checks answer against the stored security question.
// The comparison ignores case. A mismatch is audited and returns a
// WrongAnswer error.
func (s *Service) VerifySecurityAnswer(ctx context.Context, email, answer string) error {
	user, err := s.lookup(email)
	if err != nil {
		return err
	}
	return s.checkAnswer(ctx, user, answer)
}

// ResetPassword verifies answer and replaces the password for email in one
// step. The new password must satisfy the policy.
func (s *Service) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	user, err := s.lookup(email)
	if err != nil {
		return err
	}
	if err := s.checkAnswer(ctx, user, answer); err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	return s.replacePassword(ctx, user, newPassword)
}

func (s *Service) lookup(email string) (*User, error) {
	user, err := s.store.Get(email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, unknownEmailError(email)
		}
		return nil, oops.With("operation", "get account").With("email", email).Wrap(err)
	}
	return user, nil
}

func (s *Service) checkAnswer(ctx context.Context, user *User, answer string) error {
	if strings.ToLower(answer) == strings.ToLower(user.SecurityQuestion) {
		return nil
	}

	if err := s.appendAudit(ctx, user.Email, ActionPasswordResetFailed); err != nil {
		return err
	}
	s.metrics.PasswordReset(ResetResultWrongAnswer)
	s.logger.WarnContext(ctx, "security answer mismatch", "event", "reset_wrong_answer", "email", user.Email)
	return oops.Code(CodeWrongAnswer).
		With("email", user.Email).
		Errorf("incorrect answer to security question")
}

func (s *Service) replacePassword(ctx context.Context, user *User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.With("operation", "hash password").With("email", user.Email).Wrap(err)
	}

	updated := user.Clone()
	updated.PasswordHash = hash
	if err := s.store.Put(ctx, updated); err != nil {
		return oops.With("operation", "persist password").With("email", user.Email).Wrap(err)
	}
	if err := s.appendAudit(ctx, user.Email, ActionPasswordReset); err != nil {
		return err
	}

	s.metrics.PasswordReset(ResetResultSuccess)
	s.logger.InfoContext(ctx, "password reset", "event", "password_reset", "email", user.Email)
	return nil
}
