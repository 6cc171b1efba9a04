// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package auth

import (
	"math/rand/v2"
	"strings"

	"github.com/samber/oops"
)

// CAPTCHA configuration.
const (
	CaptchaLength   = 6
	CaptchaAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ChallengeGenerator produces short human-liveness codes. It keeps no state
// between calls. Codes are not secrets, so a non-cryptographic source is used.
type ChallengeGenerator struct {
	intn func(n int) int
}

// NewChallengeGenerator creates a ChallengeGenerator backed by math/rand/v2.
func NewChallengeGenerator() *ChallengeGenerator {
	return &ChallengeGenerator{intn: rand.IntN}
}

// NewChallengeGeneratorWithSource creates a ChallengeGenerator drawing symbol
// indexes from intn, which must return a value in [0, n).
func NewChallengeGeneratorWithSource(intn func(n int) int) *ChallengeGenerator {
	if intn == nil {
		intn = rand.IntN
	}
	return &ChallengeGenerator{intn: intn}
}

// Generate returns a CaptchaLength code drawn uniformly from A-Z and 0-9.
func (g *ChallengeGenerator) Generate() string {
	var b strings.Builder
	b.Grow(CaptchaLength)
	for range CaptchaLength {
		b.WriteByte(CaptchaAlphabet[g.intn(len(CaptchaAlphabet))])
	}
	return b.String()
}

// Challenge generates a code, shows it with present, reads the reply with
// collect and reports whether the upper-cased reply equals the code.
// Errors from present or collect are returned with passed=false.
func (g *ChallengeGenerator) Challenge(present func(code string) error, collect func() (string, error)) (bool, error) {
	code := g.Generate()
	if err := present(code); err != nil {
		return false, oops.With("operation", "present captcha").Wrap(err)
	}
	response, err := collect()
	if err != nil {
		return false, oops.With("operation", "collect captcha").Wrap(err)
	}
	return strings.ToUpper(response) == code, nil
}
