// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// DocumentVersion is the wire version stamped on every document.
const DocumentVersion = 1

// Collection names under users/{uid}/.
const (
	CollectionTransactions = "transactions"
	CollectionSettings     = "settings"
	CollectionGamification = "gamification"
	CollectionMeta         = "meta"
)

// Well-known document ids for single-document collections.
const (
	SettingsDocumentID     = "data"
	GamificationDocumentID = "data"
	SyncMetaDocumentID     = "sync"
)

// Document is one record of the remote document store.
type Document struct {
	// ID is the document id within its collection.
	ID string `json:"id"`

	// EncryptedData is the base64 envelope of the encrypted record JSON.
	// Empty for plaintext metadata documents.
	EncryptedData string `json:"encryptedData,omitempty"`

	// Data is an unencrypted JSON body, used only for sync metadata.
	Data json.RawMessage `json:"data,omitempty"`

	// UpdatedAt is assigned by the server on every write.
	UpdatedAt time.Time `json:"updatedAt"`

	// CreatedAt is assigned on first write and preserved afterwards.
	CreatedAt time.Time `json:"createdAt"`

	// DeviceID is the device that wrote the document last.
	DeviceID string `json:"deviceId"`

	// Version is the wire format version, always DocumentVersion.
	Version int `json:"version"`

	// Revision is a server counter incremented on every write. Used for
	// check-and-set writes.
	Revision int64 `json:"revision"`
}

// ChangeType tells what happened to a document.
type ChangeType string

const (
	ChangeUpsert ChangeType = "upsert"
	ChangeDelete ChangeType = "delete"
)

// DocumentChange is pushed to subscribers of a collection.
type DocumentChange struct {
	Type       ChangeType `json:"type"`
	UserID     string     `json:"userId"`
	Collection string     `json:"collection"`
	Document   Document   `json:"document"`
}
