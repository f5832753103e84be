// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/app"
	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestNewSyncError_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind error
		wantMsg  string
	}{
		{"auth", fmt.Errorf("%w: sign-in", ErrAuthentication), ErrAuthentication, app.MsgSyncAuthentication},
		{"revoked token", fmt.Errorf("read: %w", adapter.ErrUnauthorized), ErrAuthentication, app.MsgSyncAuthentication},
		{"foreign path", adapter.ErrForbidden, ErrAuthentication, app.MsgSyncAuthentication},
		{"key mismatch", fmt.Errorf("%w: a != b", ErrKeyMismatch), ErrEncryption, app.MsgSyncEncryption},
		{"tampered", fmt.Errorf("decrypt: %w", crypto.ErrDecryptionFailed), ErrEncryption, app.MsgSyncEncryption},
		{"missing field", fmt.Errorf("transaction #0: %w", codec.ErrMissingField), ErrValidation, app.MsgSyncValidation},
		{"future major", codec.ErrUnsupportedVersion, ErrValidation, app.MsgSyncValidation},
		{"nothing to restore", ErrNoRemoteBackup, ErrNetwork, app.MsgSyncNoBackup},
		{"claimed", ErrRemoteIncomplete, ErrNetwork, app.MsgSyncIncomplete},
		{"lost race", fmt.Errorf("claim: %w: %w", ErrRemoteChanged, adapter.ErrRevisionConflict), ErrNetwork, app.MsgSyncRemoteChanged},
		{"unreachable", fmt.Errorf("get: %w: dial tcp", adapter.ErrNetwork), ErrNetwork, app.MsgSyncNetwork},
		{"chunk", &adapter.BatchError{Chunk: 1, Written: 400, Err: adapter.ErrServerUnavailable}, ErrNetwork, app.MsgSyncNetwork},
		{"deadline", context.DeadlineExceeded, ErrNetwork, app.MsgSyncNetwork},
		{"cancelled", context.Canceled, ErrNetwork, app.MsgSyncNetwork},
		{"sqlite", errors.New("database is locked"), ErrLocalStore, app.MsgSyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newSyncError(models.SyncOperationBackup, tt.err)

			assert.ErrorIs(t, got, tt.wantKind)
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, models.SyncOperationBackup, got.Op)
		})
	}
}

func TestNewSyncError_KeepsExisting(t *testing.T) {
	inner := &SyncError{Kind: ErrEncryption, Op: models.SyncOperationRestore, Message: "m", Err: ErrKeyMismatch}
	got := newSyncError(models.SyncOperationBackup, fmt.Errorf("wrapped: %w", inner))
	assert.Same(t, inner, got)
}
