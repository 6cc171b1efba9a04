// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package shell is the interactive terminal front end: the main menu
// (login, account creation, exit), the signed-in menu (astronomy lookup,
// logout), and the prompts the auth.Service drives during login and
// password recovery.
package shell
