// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skywatch/skywatch/internal/auth"
	"github.com/skywatch/skywatch/internal/auth/mocks"
	"github.com/skywatch/skywatch/pkg/errutil"
)

func TestService_VerifySecurityAnswer(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		answer string
		ok     bool
	}{
		{name: "exact", answer: "Blue", ok: true},
		{name: "different case", answer: "bLUE", ok: true},
		{name: "mismatch", answer: "Red", ok: false},
		{name: "surrounding whitespace", answer: " Blue", ok: false},
		{name: "empty", answer: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.On("Get", testEmail).Return(testUser(), nil)
			if !tt.ok {
				f.audit.On("Append", ctx, testEmail, auth.ActionPasswordResetFailed).Return(nil).Once()
			}

			err := f.svc.VerifySecurityAnswer(ctx, testEmail, tt.answer)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errutil.AssertErrorCode(t, err, auth.CodeWrongAnswer)
		})
	}

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", "x@y.co").Return(nil, auth.ErrNotFound)

		err := f.svc.VerifySecurityAnswer(ctx, "x@y.co", "Blue")
		errutil.AssertErrorCode(t, err, auth.CodeUnknownEmail)
	})

	t.Run("empty stored question matches empty answer", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", testEmail).Return(&auth.User{Email: testEmail, PasswordHash: testHash}, nil)
		assert.NoError(t, f.svc.VerifySecurityAnswer(ctx, testEmail, ""))
	})
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces hash and audits", func(t *testing.T) {
		metrics := mocks.NewMockMetricsRecorder(t)
		f := newFixture(t, auth.WithMetrics(metrics))
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.hasher.On("Hash", "Secret2!").Return("new-hash", nil)
		f.store.On("Put", ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.PasswordHash == "new-hash"
		})).Return(nil)
		f.audit.On("Append", ctx, testEmail, auth.ActionPasswordReset).Return(nil)
		metrics.On("PasswordReset", auth.ResetResultSuccess).Once()

		require.NoError(t, f.svc.ResetPassword(ctx, testEmail, "blue", "Secret2!"))
	})

	t.Run("wrong answer is audited and stops", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.audit.On("Append", ctx, testEmail, auth.ActionPasswordResetFailed).Return(nil)

		err := f.svc.ResetPassword(ctx, testEmail, "red", "Secret2!")
		errutil.AssertErrorCode(t, err, auth.CodeWrongAnswer)
	})

	t.Run("weak password changes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", testEmail).Return(testUser(), nil)

		err := f.svc.ResetPassword(ctx, testEmail, "Blue", "weak")
		errutil.AssertErrorCode(t, err, auth.CodeWeakPassword)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", "x@y.co").Return(nil, auth.ErrNotFound)

		err := f.svc.ResetPassword(ctx, "x@y.co", "Blue", "Secret2!")
		errutil.AssertErrorCode(t, err, auth.CodeUnknownEmail)
	})

	t.Run("persist failure is returned before audit", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("disk full")
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.hasher.On("Hash", "Secret2!").Return("new-hash", nil)
		f.store.On("Put", ctx, mock.Anything).Return(boom)

		err := f.svc.ResetPassword(ctx, testEmail, "Blue", "Secret2!")
		require.ErrorIs(t, err, boom)
	})
}

func TestService_RecoverPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("re-prompts until the new password is strong", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.hasher.On("Hash", "Secret2!").Return("new-hash", nil)
		f.store.On("Put", ctx, mock.Anything).Return(nil)
		f.audit.On("Append", ctx, testEmail, auth.ActionPasswordReset).Return(nil)

		p := &scriptedPrompter{
			answers:      []string{"blue"},
			newPasswords: []string{"short", "nouppercase1!", "Secret2!"},
		}
		require.NoError(t, f.svc.RecoverPassword(ctx, testEmail, p))
		assert.Equal(t, []string{"Blue"}, p.questions)
		assert.Equal(t, []any{auth.CodeWeakPassword, auth.CodeWeakPassword}, p.noticeCodes())
		assert.Equal(t, auth.StateAnonymous, f.svc.State())
	})

	t.Run("wrong answer fails without reading a password", func(t *testing.T) {
		metrics := mocks.NewMockMetricsRecorder(t)
		f := newFixture(t, auth.WithMetrics(metrics))
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.audit.On("Append", ctx, testEmail, auth.ActionPasswordResetFailed).Return(nil)
		metrics.On("PasswordReset", auth.ResetResultWrongAnswer).Once()

		p := &scriptedPrompter{answers: []string{"green"}}
		err := f.svc.RecoverPassword(ctx, testEmail, p)
		errutil.AssertErrorCode(t, err, auth.CodeWrongAnswer)
		assert.Empty(t, p.notices)
		assert.Equal(t, auth.StateAnonymous, f.svc.State())
	})

	t.Run("unknown email fails before asking", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", "x@y.co").Return(nil, auth.ErrNotFound)

		p := &scriptedPrompter{}
		err := f.svc.RecoverPassword(ctx, "x@y.co", p)
		errutil.AssertErrorCode(t, err, auth.CodeUnknownEmail)
		assert.Empty(t, p.questions)
	})

	t.Run("audit failure on wrong answer is fatal", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("audit unwritable")
		f.store.On("Get", testEmail).Return(testUser(), nil)
		f.audit.On("Append", ctx, testEmail, auth.ActionPasswordResetFailed).Return(boom)

		err := f.svc.RecoverPassword(ctx, testEmail, &scriptedPrompter{answers: []string{"green"}})
		require.ErrorIs(t, err, boom)
		assert.False(t, auth.Recoverable(err))
	})

	t.Run("input error is returned", func(t *testing.T) {
		f := newFixture(t)
		f.store.On("Get", testEmail).Return(testUser(), nil)

		err := f.svc.RecoverPassword(ctx, testEmail, &scriptedPrompter{})
		require.Error(t, err)
		errutil.AssertErrorContext(t, err, "operation", "read security answer")
	})
}
