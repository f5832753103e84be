// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest        = errors.New("bad request")
	ErrUnauthorized      = errors.New("client unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrRevisionConflict  = errors.New("revision conflict")
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrNetwork tags failures where no HTTP response was received.
	ErrNetwork = errors.New("network error")

	ErrInvalidPath = errors.New("invalid document path")
)

// BatchError reports a chunk of a batch write that failed. Chunks before it
// were written.
type BatchError struct {
	// Chunk is the zero-based index of the failed chunk.
	Chunk int
	// Written is how many documents were stored before the failure.
	Written int
	Err     error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch chunk %d failed after %d written: %v", e.Chunk, e.Written, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
