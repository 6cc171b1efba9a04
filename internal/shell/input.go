// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// line prints prompt and reads one line without its line ending. A final
// line without a newline is returned before io.EOF.
func (s *Shell) line(prompt string) (string, error) {
	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", oops.With("operation", "write prompt").Wrap(err)
	}
	text, err := s.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(text) > 0 {
			return strings.TrimRight(text, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(text, "\r\n"), nil
}

// secret prints prompt and reads a password without echo when the input is
// a terminal. Otherwise it reads a plain line.
func (s *Shell) secret(prompt string) (string, error) {
	if s.terminalFD < 0 || !isTerminal(s.terminalFD) {
		return s.line(prompt)
	}

	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", oops.With("operation", "write prompt").Wrap(err)
	}
	pw, err := readPassword(s.terminalFD)
	fmt.Fprintln(s.out)
	if err != nil {
		return "", oops.With("operation", "read password").Wrap(err)
	}
	return string(pw), nil
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}
