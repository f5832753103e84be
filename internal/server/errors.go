// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoServersAreCreated = errors.New("no servers are created")

	// errTransportStopped reports a transport that returned without an
	// error before shutdown was requested.
	errTransportStopped = errors.New("transport stopped before shutdown")
)
