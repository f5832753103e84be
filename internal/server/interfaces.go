// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server is the lifecycle contract of the transports managed by this
// package.
type Server interface {
	// RunServer serves until ctx is done or the transport fails, then shuts
	// down gracefully.
	RunServer(ctx context.Context) error

	// Shutdown stops the server, waiting for in-flight requests until ctx
	// expires.
	Shutdown(ctx context.Context) error
}
