// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth_test

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/auth/mocks"
)

const (
	testEmail = "a@b.co"
	testHash  = "stored-hash"
)

// scriptedPrompter replays queued answers and records what the Service
// showed. An empty queue returns io.EOF, except CAPTCHA replies, which echo
// the last presented code, and recovery offers, which decline.
type scriptedPrompter struct {
	emails       []string
	passwords    []string
	captchas     []string
	offers       []bool
	answers      []string
	newPasswords []string

	codes     []string
	questions []string
	offered   []string
	notices   []error
}

var _ auth.LoginPrompter = (*scriptedPrompter)(nil)

func pop[T any](q *[]T, what string) (T, error) {
	var zero T
	if len(*q) == 0 {
		return zero, fmt.Errorf("%s: %w", what, io.EOF)
	}
	v := (*q)[0]
	*q = (*q)[1:]
	return v, nil
}

func (p *scriptedPrompter) Email(context.Context) (string, error) {
	return pop(&p.emails, "email")
}

func (p *scriptedPrompter) Password(context.Context) (string, error) {
	return pop(&p.passwords, "password")
}

func (p *scriptedPrompter) PresentCaptcha(_ context.Context, code string) error {
	p.codes = append(p.codes, code)
	return nil
}

func (p *scriptedPrompter) CaptchaResponse(context.Context) (string, error) {
	if len(p.captchas) == 0 {
		return p.codes[len(p.codes)-1], nil
	}
	return pop(&p.captchas, "captcha")
}

func (p *scriptedPrompter) OfferRecovery(_ context.Context, email string) (bool, error) {
	p.offered = append(p.offered, email)
	if len(p.offers) == 0 {
		return false, nil
	}
	return pop(&p.offers, "offer")
}

func (p *scriptedPrompter) Answer(_ context.Context, question string) (string, error) {
	p.questions = append(p.questions, question)
	return pop(&p.answers, "answer")
}

func (p *scriptedPrompter) NewPassword(context.Context) (string, error) {
	return pop(&p.newPasswords, "new password")
}

func (p *scriptedPrompter) Notify(_ context.Context, err error) {
	p.notices = append(p.notices, err)
}

// noticeCodes returns the error code of every notice in order.
func (p *scriptedPrompter) noticeCodes() []any {
	codes := make([]any, 0, len(p.notices))
	for _, err := range p.notices {
		if oopsErr, ok := oops.AsOops(err); ok {
			codes = append(codes, oopsErr.Code())
			continue
		}
		codes = append(codes, nil)
	}
	return codes
}

type fixture struct {
	store  *mocks.MockCredentialStore
	audit  *mocks.MockAuditLog
	hasher *mocks.MockPasswordHasher
	svc    *auth.Service
}

// newFixture builds a Service on mocks with a CAPTCHA source that always
// yields "AAAAAA".
func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()
	f := &fixture{
		store:  mocks.NewMockCredentialStore(t),
		audit:  mocks.NewMockAuditLog(t),
		hasher: mocks.NewMockPasswordHasher(t),
	}
	challenges := auth.NewChallengeGeneratorWithSource(func(int) int { return 0 })

	svc, err := auth.NewService(f.store, f.audit, f.hasher, challenges, opts...)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func testUser() *auth.User {
	return &auth.User{Email: testEmail, PasswordHash: testHash, SecurityQuestion: "Blue"}
}
