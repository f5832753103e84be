// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_service_mock.go -package=mock

// ClientIdentityService owns the anonymous session of this installation.
type ClientIdentityService interface {
	// Authenticate returns a usable identity and installs its token on the
	// remote store. A persisted unexpired identity is reused; an expired one
	// is refreshed with its refresh secret; when that is rejected a new
	// anonymous identity is requested. Every failure wraps ErrAuthentication.
	Authenticate(ctx context.Context) (models.Identity, error)

	// SignOut forgets the identity and the local sync metadata and drops the
	// remote store token. Ledger data stays on the device.
	SignOut(ctx context.Context) error

	// IsAuthenticated reports whether a token is currently installed.
	IsAuthenticated() bool

	// GetOrCreateDeviceID returns the persisted device id, generating it on
	// first use.
	GetOrCreateDeviceID(ctx context.Context) (string, error)
}

// ClientSyncService decides and runs whole-dataset sync rounds.
type ClientSyncService interface {
	// PerformSync authenticates, compares the local and remote timestamps
	// and runs a backup or a restore accordingly. A sync failure is reported
	// through the result, the status stream and the retry queue; only
	// authentication failures and ErrSyncInProgress are returned as errors.
	PerformSync(ctx context.Context) (models.SyncResult, error)

	// Backup uploads the local dataset and replaces the remote one.
	Backup(ctx context.Context) (models.SyncResult, error)

	// Restore replaces the local dataset with the remote one.
	Restore(ctx context.Context) (models.SyncResult, error)

	// Subscribe returns a stream of status snapshots and a function that
	// releases it. Slow readers miss intermediate snapshots, never the
	// latest one.
	Subscribe() (<-chan models.SyncStatus, func())

	// Status returns the current snapshot.
	Status() models.SyncStatus

	// WatchRemote streams backups that other devices completed. Only the
	// newest unread one is kept. The stream closes when ctx is done or the
	// subscription drops.
	WatchRemote(ctx context.Context) (<-chan models.RemoteSyncMetadata, error)
}

// ClientRetryQueue records failed sync operations for the background job.
type ClientRetryQueue interface {
	Enqueue(ctx context.Context, opType models.SyncOperationType, message string) error
	// Drain returns the pending operations oldest first and removes them.
	Drain(ctx context.Context) ([]models.SyncOperation, error)
	Pending(ctx context.Context) ([]models.SyncOperation, error)
	RemoveByType(ctx context.Context, opType models.SyncOperationType) error
}

// ClientSyncJob runs sync rounds in the background until stopped. It is a
// [workers.Worker].
type ClientSyncJob interface {
	// Run starts the job with a background context and returns at once.
	Run()
	// Start launches the loop bound to ctx, stopping a previous one first.
	Start(ctx context.Context)
	// Stop cancels the loop and waits for it to exit. Safe to call when the
	// job is not running.
	Stop()
}

// ClientLedgerService is the local editing surface of the ledger. Every
// change is stored on the device only and picked up by the next sync.
type ClientLedgerService interface {
	AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// ClientKeyService pairs devices. A pairing code carries the anonymous
// identity and the installation key, which is everything another device
// needs to read and write the same backup.
type ClientKeyService interface {
	// ExportRecoveryKey returns the pairing code of this device. The device
	// must have signed in at least once.
	ExportRecoveryKey(ctx context.Context) (string, error)

	// ImportRecoveryKey adopts the identity and key of another device. Local
	// sync metadata is cleared, so the next sync restores the shared backup.
	ImportRecoveryKey(ctx context.Context, code string) error

	Fingerprint(ctx context.Context) (string, error)
}
