// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// Sync error kinds. A *SyncError matches its kind with errors.Is.
var (
	// ErrAuthentication: no identity could be obtained. Propagates to the
	// caller; nothing is enqueued.
	ErrAuthentication = errors.New("authentication failed")

	// ErrNetwork: the remote store could not be reached or failed
	// transiently. Retried through the queue.
	ErrNetwork = errors.New("network failure")

	// ErrEncryption: a record could not be sealed or opened with the local
	// key.
	ErrEncryption = errors.New("encryption failure")

	// ErrValidation: the local dataset is malformed. Reported before any
	// network call.
	ErrValidation = errors.New("validation failure")

	// ErrLocalStore: the device-local database failed.
	ErrLocalStore = errors.New("local store failure")
)

var (
	// ErrSyncInProgress is returned without any I/O when a sync round is
	// already running.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrRemoteIncomplete is returned by Restore when the remote backup was
	// claimed by a device that has not finalized it yet.
	ErrRemoteIncomplete = errors.New("remote backup is incomplete")

	// ErrRemoteChanged is returned when another device wrote the remote
	// metadata between our read and our check-and-set write.
	ErrRemoteChanged = errors.New("remote backup changed concurrently")

	// ErrKeyMismatch is returned when the remote backup was encrypted with a
	// different key than this device's.
	ErrKeyMismatch = errors.New("remote backup uses a different encryption key")

	// ErrNoRemoteBackup is returned by Restore when nothing was ever backed
	// up for this identity.
	ErrNoRemoteBackup = errors.New("no remote backup")

	// ErrNoIdentity is returned by operations that need a signed-in
	// identity when there is none.
	ErrNoIdentity = errors.New("not signed in")
)

// SyncError is the typed failure of one sync operation. Message is safe to
// show to the user; Err keeps the technical detail for the log.
type SyncError struct {
	Kind    error
	Op      models.SyncOperationType
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *SyncError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
