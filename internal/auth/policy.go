// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// MinPasswordLength is the shortest password the policy accepts.
const MinPasswordLength = 8

// PasswordPunctuation is the set of special characters a strong password
// must draw at least one character from.
const PasswordPunctuation = `!@#$%^&*(),.?":{}|<>`

// emailRegex matches local@domain where the domain ends in a dot-separated
// suffix of at least two letters.
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// PasswordStrength reports which password requirements are met.
type PasswordStrength struct {
	LongEnough   bool
	HasUpper     bool
	HasLower     bool
	HasDigit     bool
	HasPunctuate bool
}

// Strong returns true when every requirement is met.
func (s PasswordStrength) Strong() bool {
	return s.LongEnough && s.HasUpper && s.HasLower && s.HasDigit && s.HasPunctuate
}

// Missing lists the unmet requirements in a stable order.
func (s PasswordStrength) Missing() []string {
	var missing []string
	if !s.LongEnough {
		missing = append(missing, "length")
	}
	if !s.HasUpper {
		missing = append(missing, "uppercase")
	}
	if !s.HasLower {
		missing = append(missing, "lowercase")
	}
	if !s.HasDigit {
		missing = append(missing, "digit")
	}
	if !s.HasPunctuate {
		missing = append(missing, "special")
	}
	return missing
}

// CheckPassword evaluates password against the strength policy.
// Letters and digits are ASCII only; length counts characters.
func CheckPassword(password string) PasswordStrength {
	s := PasswordStrength{LongEnough: utf8.RuneCountInString(password) >= MinPasswordLength}
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			s.HasUpper = true
		case r >= 'a' && r <= 'z':
			s.HasLower = true
		case r >= '0' && r <= '9':
			s.HasDigit = true
		case strings.ContainsRune(PasswordPunctuation, r):
			s.HasPunctuate = true
		}
	}
	return s
}

// IsStrong returns true iff the password is at least MinPasswordLength long
// and contains an uppercase letter, a lowercase letter, a digit and a
// character from PasswordPunctuation.
func IsStrong(password string) bool {
	return CheckPassword(password).Strong()
}

// ValidatePassword returns an AUTH_WEAK_PASSWORD error naming the unmet
// requirements, or nil when the password is strong.
func ValidatePassword(password string) error {
	s := CheckPassword(password)
	if s.Strong() {
		return nil
	}
	return oops.Code(CodeWeakPassword).
		With("missing", s.Missing()).
		Errorf("password must be at least %d characters long and contain uppercase, lowercase, digit, and special character", MinPasswordLength)
}

// ValidateEmail validates email syntax.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return oops.Code(CodeInvalidEmail).Errorf("invalid email format")
	}
	return nil
}

// EmailPolicy validates email syntax and, when configured, restricts the
// domain to a set of glob patterns such as "example.com" or "*.example.org".
// Patterns use '.' as the separator, so "*" matches one label and "**" any.
type EmailPolicy struct {
	patterns []string
	domains  []glob.Glob
}

// NewEmailPolicy compiles the domain patterns. An empty list accepts any domain.
func NewEmailPolicy(patterns []string) (*EmailPolicy, error) {
	p := &EmailPolicy{patterns: patterns}
	for _, pattern := range patterns {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, oops.Code(CodeInvalidPolicy).
				With("pattern", pattern).
				Wrap(err)
		}
		p.domains = append(p.domains, g)
	}
	return p, nil
}

// Validate checks email syntax and the domain allow-list.
func (p *EmailPolicy) Validate(email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if p == nil || len(p.domains) == 0 {
		return nil
	}

	domain := strings.ToLower(email[strings.LastIndexByte(email, '@')+1:])
	for _, g := range p.domains {
		if g.Match(domain) {
			return nil
		}
	}
	return oops.Code(CodeInvalidEmail).
		With("domain", domain).
		With("allowed", p.patterns).
		Errorf("email domain %q is not allowed", domain)
}
