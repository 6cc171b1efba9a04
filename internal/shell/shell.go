// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package shell

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/skywatch/skywatch/internal/astronomy"
	"github.com/skywatch/skywatch/internal/auth"
)

// Lookup fetches astronomy data for a location.
type Lookup interface {
	Lookup(ctx context.Context, location string) (*astronomy.Report, error)
}

// LookupMetrics counts astronomy lookups.
type LookupMetrics interface {
	Lookup(err error)
}

type nopLookupMetrics struct{}

func (nopLookupMetrics) Lookup(error) {}

// Shell runs the interactive menus over an auth.Service.
type Shell struct {
	svc        *auth.Service
	lookup     Lookup
	in         *bufio.Reader
	out        io.Writer
	terminalFD int
	logger     *slog.Logger
	metrics    LookupMetrics
}

var _ auth.LoginPrompter = (*Shell)(nil)

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Shell) {
		s.logger = logger
	}
}

// WithLookupMetrics sets the lookup counter.
func WithLookupMetrics(m LookupMetrics) Option {
	return func(s *Shell) {
		s.metrics = m
	}
}

// WithTerminal reads passwords from the terminal fd without echo when fd
// is a terminal.
func WithTerminal(fd int) Option {
	return func(s *Shell) {
		s.terminalFD = fd
	}
}

// New creates a Shell reading from in and writing to out.
func New(svc *auth.Service, lookup Lookup, in io.Reader, out io.Writer, opts ...Option) (*Shell, error) {
	if svc == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if lookup == nil {
		return nil, oops.Errorf("astronomy lookup is required")
	}

	s := &Shell{
		svc:        svc,
		lookup:     lookup,
		in:         bufio.NewReader(in),
		out:        out,
		terminalFD: -1,
		logger:     slog.New(slog.DiscardHandler),
		metrics:    nopLookupMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	if s.metrics == nil {
		s.metrics = nopLookupMetrics{}
	}
	return s, nil
}

// ReportDiagnostics shows credential table load problems to the user.
func (s *Shell) ReportDiagnostics(diags []error) {
	for _, d := range diags {
		s.println(message(d))
	}
}

// Run shows the main menu until the user exits or input ends. It returns
// an error only for failures that leave the credential table or audit log
// in doubt.
func (s *Shell) Run(ctx context.Context) error {
	err := s.mainMenu(ctx)
	if errors.Is(err, io.EOF) {
		s.logger.DebugContext(ctx, "input closed", "event", "shell_eof")
		return nil
	}
	return err
}

func (s *Shell) mainMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return oops.With("operation", "main menu").Wrap(err)
		}

		s.println("\n1. Login")
		s.println("2. Create Account")
		s.println("3. Exit")
		choice, err := s.line("Enter your choice (1-3): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.login(ctx)
		case "2":
			err = s.createAccount(ctx)
		case "3":
			s.println(msgGoodbye)
			return nil
		default:
			s.println(msgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

// handle prints recoverable errors and returns the rest.
func (s *Shell) handle(err error) error {
	if err == nil {
		return nil
	}
	if auth.Recoverable(err) {
		s.println(message(err))
		return nil
	}
	return err
}

func (s *Shell) login(ctx context.Context) error {
	identity, err := s.svc.Login(ctx, s)
	if err != nil {
		return s.handle(err)
	}
	if identity == nil {
		// Recovery was accepted and completed; the user signs in again.
		s.println(msgResetOK)
		return nil
	}

	s.println(msgLoginOK)
	return s.sessionMenu(ctx)
}

func (s *Shell) sessionMenu(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return oops.With("operation", "session menu").Wrap(err)
		}

		s.println("\n1. Get Astronomy Data")
		s.println("2. Logout")
		choice, err := s.line("Enter your choice (1-2): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := s.astronomy(ctx); err != nil {
				return err
			}
		case "2":
			return s.handle(s.svc.Logout(ctx))
		default:
			s.println(msgInvalidChoice)
		}
	}
}

// astronomy looks up a location and shows the result. The lookup is
// audited whether or not it succeeded.
func (s *Shell) astronomy(ctx context.Context) error {
	location, err := s.line("\nEnter a city or location: ")
	if err != nil {
		return err
	}

	report, lookupErr := s.lookup.Lookup(ctx, location)
	s.metrics.Lookup(lookupErr)
	if lookupErr != nil {
		s.println(message(lookupErr))
	} else if err := report.Render(s.out); err != nil {
		return err
	}

	return s.handle(s.svc.RecordAction(ctx, auth.LookupAction(location)))
}

func (s *Shell) createAccount(ctx context.Context) error {
	s.println("\nCreating a new account:")

	var email string
	for {
		var err error
		email, err = s.line("Enter your email: ")
		if err != nil {
			return err
		}
		verr := s.svc.ValidateEmail(email)
		if verr == nil {
			break
		}
		s.println(message(verr))
	}

	if err := s.svc.CheckAvailable(email); err != nil {
		return s.handle(err)
	}

	var password string
	for {
		var err error
		password, err = s.secret("Enter your password (hidden): ")
		if err != nil {
			return err
		}
		if auth.IsStrong(password) {
			break
		}
		s.println(msgWeakPassword)
	}

	question, err := s.line("Enter a security question for password recovery: ")
	if err != nil {
		return err
	}

	if err := s.svc.CreateAccount(ctx, email, password, question); err != nil {
		return s.handle(err)
	}
	s.println(msgAccountCreated)
	return nil
}

// Email implements auth.LoginPrompter.
func (s *Shell) Email(context.Context) (string, error) {
	return s.line("Enter your email: ")
}

// Password implements auth.LoginPrompter.
func (s *Shell) Password(context.Context) (string, error) {
	return s.secret("Enter your password (hidden): ")
}

// PresentCaptcha implements auth.LoginPrompter.
func (s *Shell) PresentCaptcha(_ context.Context, code string) error {
	_, err := io.WriteString(s.out, "CAPTCHA: "+code+"\n")
	return err
}

// CaptchaResponse implements auth.LoginPrompter.
func (s *Shell) CaptchaResponse(context.Context) (string, error) {
	return s.line("Enter the CAPTCHA: ")
}

// OfferRecovery implements auth.LoginPrompter. Only "y" or "Y" accepts.
func (s *Shell) OfferRecovery(context.Context, string) (bool, error) {
	answer, err := s.line("Do you want to reset your password? (y/n): ")
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

// Answer implements auth.RecoveryPrompter.
func (s *Shell) Answer(_ context.Context, question string) (string, error) {
	return s.line("Security Question: " + question + "\nYour answer: ")
}

// NewPassword implements auth.RecoveryPrompter.
func (s *Shell) NewPassword(context.Context) (string, error) {
	return s.secret("Enter your new password (hidden): ")
}

// Notify implements auth.RecoveryPrompter.
func (s *Shell) Notify(_ context.Context, err error) {
	s.println(message(err))
}
