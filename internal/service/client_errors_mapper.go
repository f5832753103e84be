// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/app"
	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// newSyncError classifies err into a kind and a human message.
func newSyncError(op models.SyncOperationType, err error) *SyncError {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr
	}

	kind, msg := classifySyncError(err)
	return &SyncError{Kind: kind, Op: op, Message: msg, Err: err}
}

func classifySyncError(err error) (kind error, message string) {
	switch {
	case errors.Is(err, ErrAuthentication),
		errors.Is(err, ErrNoIdentity),
		errors.Is(err, adapter.ErrUnauthorized),
		errors.Is(err, adapter.ErrForbidden):
		return ErrAuthentication, app.MsgSyncAuthentication

	case errors.Is(err, ErrKeyMismatch),
		errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrInvalidKey):
		return ErrEncryption, app.MsgSyncEncryption

	case errors.Is(err, codec.ErrInvalidDataset),
		errors.Is(err, codec.ErrMalformedDocument),
		errors.Is(err, codec.ErrMissingField),
		errors.Is(err, codec.ErrUnsupportedVersion):
		return ErrValidation, app.MsgSyncValidation

	case errors.Is(err, ErrNoRemoteBackup):
		return ErrNetwork, app.MsgSyncNoBackup

	case errors.Is(err, ErrRemoteIncomplete):
		return ErrNetwork, app.MsgSyncIncomplete

	case errors.Is(err, ErrRemoteChanged),
		errors.Is(err, adapter.ErrRevisionConflict):
		return ErrNetwork, app.MsgSyncRemoteChanged

	case adapter.IsRetryable(err),
		errors.Is(err, context.Canceled),
		errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrNotFound):
		return ErrNetwork, app.MsgSyncNetwork
	}

	return ErrLocalStore, app.MsgSyncFailed
}
