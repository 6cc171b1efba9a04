// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Skywatch Contributors

// Package astronomy fetches sunrise, sunset and day length data for a free
// text location from the ipgeolocation.io astronomy API and renders it for
// the terminal.
//
// Every failure is reported with the REMOTE_LOOKUP_FAILED code. The "stage"
// context tells a transport or status failure (StageFetch) from a response
// whose fields do not parse (StageDecode). Lookups are never retried.
package astronomy
