// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists anonymous identities of the document store.
type UserRepository interface {
	// CreateUser inserts user and returns it with server-assigned fields.
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	// FindUserByID returns ErrNoUserWasFound when the id is unknown.
	FindUserByID(ctx context.Context, userID string) (models.User, error)
}

// PutOptions controls a single document write.
type PutOptions struct {
	// Merge keeps stored values for fields the incoming document leaves
	// empty and shallow-merges JSON bodies.
	Merge bool
	// ExpectedRevision turns the write into a check-and-set. Zero means the
	// document must not exist yet.
	ExpectedRevision *int64
}

// DocumentRepository stores per-user document collections. The database
// assigns updated_at on every write, keeps created_at of existing rows and
// increments revision.
type DocumentRepository interface {
	Get(ctx context.Context, userID, collection, docID string) (models.Document, error)
	List(ctx context.Context, userID, collection string) ([]models.Document, error)
	Put(ctx context.Context, userID, collection string, doc models.Document, opts PutOptions) (models.Document, error)
	// PutBatch writes docs atomically: either all of them are stored or
	// none.
	PutBatch(ctx context.Context, userID, collection string, docs []models.Document, merge bool) ([]models.Document, error)
	Delete(ctx context.Context, userID, collection, docID string) error
	// DeleteBatch removes the listed ids and returns how many existed.
	DeleteBatch(ctx context.Context, userID, collection string, ids []string) (int64, error)
}
