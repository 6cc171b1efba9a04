// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// State is the authentication state of a Service.
type State int

// Service states.
const (
	StateAnonymous State = iota
	StateAuthenticated
	StateLockedOut
	StateRecoveryInProgress
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	case StateLockedOut:
		return "locked_out"
	case StateRecoveryInProgress:
		return "recovery_in_progress"
	default:
		return "unknown"
	}
}

// RecoveryPrompter supplies the interactive input for password recovery.
type RecoveryPrompter interface {
	// Answer shows the stored security question and returns the typed answer.
	Answer(ctx context.Context, question string) (string, error)

	// NewPassword reads a replacement password. It is called again after
	// every weak candidate.
	NewPassword(ctx context.Context) (string, error)

	// Notify reports a recoverable condition to the user. err always carries
	// one of this package's error codes.
	Notify(ctx context.Context, err error)
}

// LoginPrompter supplies the interactive input for a login session.
type LoginPrompter interface {
	RecoveryPrompter

	Email(ctx context.Context) (string, error)
	Password(ctx context.Context) (string, error)

	// PresentCaptcha shows the challenge code.
	PresentCaptcha(ctx context.Context, code string) error

	// CaptchaResponse reads the reply to the last presented code.
	CaptchaResponse(ctx context.Context) (string, error)

	// OfferRecovery asks whether to start password recovery for email.
	OfferRecovery(ctx context.Context, email string) (bool, error)
}

// Service owns the credential table and drives every credential lifecycle
// operation. It is single-session and not safe for concurrent use.
type Service struct {
	store       CredentialStore
	audit       AuditLog
	hasher      PasswordHasher
	challenges  *ChallengeGenerator
	emails      *EmailPolicy
	maxAttempts int
	metrics     MetricsRecorder
	logger      *slog.Logger
	now         func() time.Time

	state    State
	identity *Identity
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for security events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMaxAttempts sets the wrong-password budget of a single Login call.
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		s.maxAttempts = n
	}
}

// WithEmailPolicy restricts account creation to the policy's domains.
func WithEmailPolicy(policy *EmailPolicy) Option {
	return func(s *Service) {
		s.emails = policy
	}
}

// WithMetrics sets the recorder for login and reset outcomes.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the time source used for Identity timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service in the Anonymous state.
func NewService(store CredentialStore, audit AuditLog, hasher PasswordHasher, challenges *ChallengeGenerator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, oops.Errorf("credential store is required")
	}
	if audit == nil {
		return nil, oops.Errorf("audit log is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if challenges == nil {
		return nil, oops.Errorf("challenge generator is required")
	}

	s := &Service{
		store:       store,
		audit:       audit,
		hasher:      hasher,
		challenges:  challenges,
		maxAttempts: DefaultMaxLoginAttempts,
		metrics:     nopMetrics{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// State returns the current authentication state.
func (s *Service) State() State {
	return s.state
}

// Identity returns the authenticated identity, or nil outside the
// Authenticated state.
func (s *Service) Identity() *Identity {
	if s.state != StateAuthenticated {
		return nil
	}
	return s.identity
}

// ValidateEmail checks the email syntax and the configured domain policy.
func (s *Service) ValidateEmail(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	return s.emails.Validate(email)
}

// CheckAvailable returns a DuplicateAccount error when email is taken.
func (s *Service) CheckAvailable(email string) error {
	if s.store.Exists(email) {
		return oops.Code(CodeDuplicateAccount).
			With("email", email).
			Errorf("an account with this email already exists")
	}
	return nil
}

// CreateAccount registers a new account. Checks run in order: email
// validity, uniqueness, then password strength. On success the table is
// persisted and "Account created" is audited.
func (s *Service) CreateAccount(ctx context.Context, email, password, securityQuestion string) error {
	if err := s.ValidateEmail(email); err != nil {
		return err
	}
	if err := s.CheckAvailable(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.With("operation", "hash password").With("email", email).Wrap(err)
	}

	user, err := NewUser(email, hash, securityQuestion)
	if err != nil {
		return err
	}

	if err := s.store.Put(ctx, user); err != nil {
		return oops.With("operation", "persist account").With("email", email).Wrap(err)
	}
	if err := s.appendAudit(ctx, email, ActionAccountCreated); err != nil {
		return err
	}

	s.metrics.AccountCreated()
	s.logger.InfoContext(ctx, "account created", "event", "account_created", "email", email)
	return nil
}

// Login runs the interactive login loop until the user authenticates,
// completes a password recovery, or exhausts the attempt budget.
//
// An unknown email or a failed CAPTCHA re-prompts without consuming an
// attempt. Each wrong password consumes one. Login returns (nil, nil) when
// the user accepted recovery after a wrong password and it succeeded; no
// session exists in that case.
func (s *Service) Login(ctx context.Context, p LoginPrompter) (*Identity, error) {
	s.state = StateAnonymous
	s.identity = nil
	attempts := NewAttemptCounter(s.maxAttempts)

	for !attempts.Exhausted() {
		email, err := p.Email(ctx)
		if err != nil {
			return nil, oops.With("operation", "read email").Wrap(err)
		}

		user, err := s.store.Get(email)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, oops.With("operation", "get account").With("email", email).Wrap(err)
			}
			s.metrics.LoginAttempt(LoginResultUnknownEmail)
			if err := s.offerUnknownRecovery(ctx, p, email); err != nil {
				return nil, err
			}
			continue
		}

		password, err := p.Password(ctx)
		if err != nil {
			return nil, oops.With("operation", "read password").Wrap(err)
		}

		passed, err := s.challenges.Challenge(
			func(code string) error { return p.PresentCaptcha(ctx, code) },
			func() (string, error) { return p.CaptchaResponse(ctx) },
		)
		if err != nil {
			return nil, err
		}
		if !passed {
			s.metrics.LoginAttempt(LoginResultCaptcha)
			p.Notify(ctx, oops.Code(CodeCaptchaFailed).Errorf("CAPTCHA verification failed"))
			continue
		}

		valid, verr := s.hasher.Verify(password, user.PasswordHash)
		if verr != nil {
			s.logger.WarnContext(ctx, "stored password hash unreadable",
				"event", "invalid_hash", "email", email, "error", verr)
		}

		if valid {
			if err := s.appendAudit(ctx, email, ActionLoginSucceeded); err != nil {
				return nil, err
			}
			s.identity = &Identity{
				Email:           email,
				SessionID:       ulid.Make(),
				AuthenticatedAt: s.now(),
			}
			s.state = StateAuthenticated
			s.metrics.LoginAttempt(LoginResultSuccess)
			s.logger.InfoContext(ctx, "login succeeded",
				"event", "login_succeeded", "email", email, "session_id", s.identity.SessionID.String())
			return s.identity, nil
		}

		remaining := attempts.RecordFailure()
		s.metrics.LoginAttempt(LoginResultFailure)
		if err := s.appendAudit(ctx, email, ActionLoginFailed); err != nil {
			return nil, err
		}
		s.logger.WarnContext(ctx, "login failed",
			"event", "login_failed", "email", email, "remaining", remaining)
		p.Notify(ctx, oops.Code(CodeInvalidCredentials).
			With("remaining", remaining).
			Errorf("invalid password, %d attempts remaining", remaining))

		if remaining == 0 {
			break
		}
		accept, err := p.OfferRecovery(ctx, email)
		if err != nil {
			return nil, oops.With("operation", "offer recovery").Wrap(err)
		}
		if accept {
			return nil, s.RecoverPassword(ctx, email, p)
		}
	}

	s.state = StateLockedOut
	s.metrics.LoginAttempt(LoginResultLockedOut)
	s.logger.WarnContext(ctx, "login locked out", "event", "login_locked_out", "attempts", attempts.Failed())
	return nil, oops.Code(CodeMaxAttempts).
		With("attempts", attempts.Failed()).
		Errorf("maximum login attempts exceeded")
}

// offerUnknownRecovery reports an unknown email and, if the user accepts,
// runs recovery, which itself reports the email as unknown. Only fatal
// errors are returned.
func (s *Service) offerUnknownRecovery(ctx context.Context, p LoginPrompter, email string) error {
	p.Notify(ctx, unknownEmailError(email))

	accept, err := p.OfferRecovery(ctx, email)
	if err != nil {
		return oops.With("operation", "offer recovery").Wrap(err)
	}
	if !accept {
		return nil
	}

	if err := s.RecoverPassword(ctx, email, p); err != nil {
		if !Recoverable(err) {
			return err
		}
		p.Notify(ctx, err)
	}
	return nil
}

// Logout ends the authenticated session and audits "Logout".
func (s *Service) Logout(ctx context.Context) error {
	identity, err := s.requireAuthenticated()
	if err != nil {
		return err
	}
	if err := s.appendAudit(ctx, identity.Email, ActionLogout); err != nil {
		return err
	}
	s.state = StateAnonymous
	s.identity = nil
	s.logger.InfoContext(ctx, "logout", "event", "logout", "email", identity.Email)
	return nil
}

// RecordAction audits an action performed by the authenticated user.
func (s *Service) RecordAction(ctx context.Context, action string) error {
	identity, err := s.requireAuthenticated()
	if err != nil {
		return err
	}
	return s.appendAudit(ctx, identity.Email, action)
}

func (s *Service) requireAuthenticated() (*Identity, error) {
	if s.state != StateAuthenticated || s.identity == nil {
		return nil, oops.Code(CodeNotAuthenticated).
			With("state", s.state.String()).
			Errorf("no authenticated session")
	}
	return s.identity, nil
}

func (s *Service) appendAudit(ctx context.Context, email, action string) error {
	if err := s.audit.Append(ctx, email, action); err != nil {
		return oops.With("operation", "append audit").
			With("email", email).
			With("action", action).
			Wrap(err)
	}
	return nil
}

func unknownEmailError(email string) error {
	return oops.Code(CodeUnknownEmail).With("email", email).Errorf("no account found with this email")
}

// Recoverable reports whether err is a user-correctable condition that
// leaves the Service usable, as opposed to an I/O or persistence failure.
func Recoverable(err error) bool {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return false
	}
	switch oopsErr.Code() {
	case CodeInvalidEmail, CodeDuplicateAccount, CodeWeakPassword,
		CodeUnknownEmail, CodeCaptchaFailed, CodeInvalidCredentials,
		CodeMaxAttempts, CodeWrongAnswer, CodeNotAuthenticated:
		return true
	default:
		return false
	}
}
