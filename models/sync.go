// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncMetadata is the per-device sync bookkeeping kept in the local store.
// It is only removed on sign-out.
type SyncMetadata struct {
	DeviceID string `json:"deviceId"`

	// LastLocalSyncTime is bumped on every local mutation and set to the
	// cloud timestamp after each successful sync.
	LastLocalSyncTime *time.Time `json:"lastLocalSyncTime,omitempty"`

	// LastCloudSyncTime is the server timestamp of the last completed backup
	// this device has seen.
	LastCloudSyncTime *time.Time `json:"lastCloudSyncTime,omitempty"`
}

// RemoteSyncState tells whether the remote dataset is consistent.
type RemoteSyncState string

const (
	// RemoteStateComplete marks a finished backup.
	RemoteStateComplete RemoteSyncState = "complete"
	// RemoteStateUploading marks a backup that claimed the remote but has
	// not finalized it yet.
	RemoteStateUploading RemoteSyncState = "uploading"
)

// RemoteSyncMetadata is the plaintext body of the users/{uid}/meta/sync
// document.
type RemoteSyncMetadata struct {
	State            RemoteSyncState `json:"state"`
	DeviceID         string          `json:"deviceId"`
	TransactionCount int             `json:"transactionCount"`
	KeyFingerprint   string          `json:"keyFingerprint"`
	DatasetVersion   string          `json:"datasetVersion,omitempty"`

	// Revision and LastCloudSyncTime come from the enclosing document, not
	// from the body.
	Revision          int64      `json:"-"`
	LastCloudSyncTime *time.Time `json:"-"`
}

// SyncOperationType is the direction of a queued retry.
type SyncOperationType string

const (
	SyncOperationBackup  SyncOperationType = "backup"
	SyncOperationRestore SyncOperationType = "restore"
)

// SyncOperation is one retry-queue entry.
type SyncOperation struct {
	ID           int64             `json:"id"`
	Type         SyncOperationType `json:"type"`
	ErrorMessage string            `json:"errorMessage"`
	EnqueuedAt   time.Time         `json:"enqueuedAt"`
}

// SyncState is the orchestrator state published to observers. A round goes
// Authenticating, then Uploading, Downloading or NoAction, then Success or
// Error, and is back at Idle once it returns. The Idle snapshot keeps the
// outcome in LastState so an observer that only sees the latest snapshot
// still learns how the round ended.
type SyncState string

const (
	SyncStateIdle           SyncState = "idle"
	SyncStateAuthenticating SyncState = "authenticating"
	SyncStateUploading      SyncState = "uploading"
	SyncStateDownloading    SyncState = "downloading"
	SyncStateNoAction       SyncState = "no_action"
	SyncStateSuccess        SyncState = "success"
	SyncStateError          SyncState = "error"
)

// SyncStatus is a transient snapshot of the orchestrator. Never persisted.
// LastState is the terminal state of the previous round, empty before the
// first one.
type SyncStatus struct {
	State        SyncState  `json:"state"`
	LastState    SyncState  `json:"lastState,omitempty"`
	IsSyncing    bool       `json:"isSyncing"`
	IsUploading  bool       `json:"isUploading"`
	IsRestoring  bool       `json:"isRestoring"`
	Progress     float64    `json:"progress"`
	Done         int        `json:"done"`
	Total        int        `json:"total"`
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
}

// SyncAction is what a sync round ended up doing.
type SyncAction string

const (
	SyncActionNone      SyncAction = "none"
	SyncActionFirstSync SyncAction = "first_sync"
	SyncActionBackup    SyncAction = "backup"
	SyncActionRestore   SyncAction = "restore"
	SyncActionFailed    SyncAction = "failed"
)

// SyncResult reports the outcome of a sync round. Err is set when Action is
// SyncActionFailed.
type SyncResult struct {
	Action   SyncAction
	SyncedAt *time.Time
	Written  int
	Read     int
	Skipped  int
	Err      error
}
