// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LedgerRepository is the device-local copy of the user's data.
//
// Every mutation except ImportAll advances the local sync timestamp to
// max(now, previous+1ms), so an edit made right after a sync is always newer
// than the cloud timestamp.
type LedgerRepository interface {
	// ExportAll returns the whole dataset as a versioned JSON document.
	ExportAll(ctx context.Context) ([]byte, error)
	// ImportAll replaces the whole dataset in one transaction. On error the
	// previous data is left untouched.
	ImportAll(ctx context.Context, data []byte) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	AddTransaction(ctx context.Context, tx models.Transaction) error
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// GetSettings returns DefaultSettings when nothing was saved yet.
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// GetGamification returns nil when nothing was saved yet.
	GetGamification(ctx context.Context) (*models.Gamification, error)
	SaveGamification(ctx context.Context, g models.Gamification) error
}

// MetadataRepository keeps small per-device records: the device id, the
// anonymous identity and the sync timestamps.
type MetadataRepository interface {
	// GetSyncMetadata returns zero metadata when nothing was saved yet.
	GetSyncMetadata(ctx context.Context) (models.SyncMetadata, error)
	SaveSyncMetadata(ctx context.Context, meta models.SyncMetadata) error
	DeleteSyncMetadata(ctx context.Context) error

	// GetDeviceID returns ErrNotFound until SaveDeviceID was called.
	GetDeviceID(ctx context.Context) (string, error)
	SaveDeviceID(ctx context.Context, deviceID string) error

	// GetIdentity returns ErrNotFound when the device never signed in.
	GetIdentity(ctx context.Context) (models.Identity, error)
	SaveIdentity(ctx context.Context, identity models.Identity) error
	DeleteIdentity(ctx context.Context) error
}

// RetryQueueRepository is the durable FIFO of failed sync operations.
type RetryQueueRepository interface {
	// Enqueue appends op and drops the oldest entries so that at most
	// capacity remain. A non-positive capacity disables the bound.
	Enqueue(ctx context.Context, op models.SyncOperation, capacity int) (models.SyncOperation, error)
	// Drain returns every entry oldest first and removes them.
	Drain(ctx context.Context) ([]models.SyncOperation, error)
	// List returns every entry oldest first without removing them.
	List(ctx context.Context) ([]models.SyncOperation, error)
	RemoveByType(ctx context.Context, opType models.SyncOperationType) (int64, error)
	Count(ctx context.Context) (int, error)
}
