// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/go-ledger-sync/models"
)

// syncOp names what the user asked for.
type syncOp string

const (
	opSync    syncOp = "sync"
	opBackup  syncOp = "backup"
	opRestore syncOp = "restore"
)

type statusMsg struct {
	status models.SyncStatus
}

type statusClosedMsg struct{}

type syncDoneMsg struct {
	op     syncOp
	result models.SyncResult
	err    error
}

type listLoadedMsg struct {
	items []models.Transaction
	err   error
}

type itemSavedMsg struct {
	err error
}

type itemDeletedMsg struct {
	err error
}

type pairingMsg struct {
	code    string
	copyErr error
	err     error
}

type copiedMsg struct {
	err error
}

type importedMsg struct {
	err error
}

type clearStatusMsg struct{}

// remoteWatchMsg carries the stream of other devices' backups, or why it
// could not be opened.
type remoteWatchMsg struct {
	backups <-chan models.RemoteSyncMetadata
	err     error
}

type remoteBackupMsg struct {
	meta models.RemoteSyncMetadata
}

type remoteWatchClosedMsg struct{}
