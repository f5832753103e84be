// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the remote document store.
//
// The primary abstraction is [RemoteStore], which decouples the sync services
// from the transport. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteStore]) that talks to the bundled server and an in-memory
// implementation ([NewMemoryRemoteStore]) with the same semantics for tests
// and offline runs.
//
// Transport failures are mapped to the sentinel values in errors.go so that
// callers can use [errors.Is] without knowing the protocol (e.g.
// [ErrRevisionConflict] for 409, [ErrUnauthorized] for 401, [ErrNetwork] when
// the server could not be reached at all).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// WriteOptions controls a single document write.
type WriteOptions struct {
	// Merge keeps stored fields that the written document leaves empty.
	Merge bool
	// ExpectedRevision turns the write into a check-and-set: the write fails
	// with ErrRevisionConflict unless the stored revision equals it. Zero
	// means the document must not exist yet.
	ExpectedRevision *int64
}

// ChunkFunc is called after every successfully written chunk with the number
// of documents written so far and the total.
type ChunkFunc func(done, total int)

// RemoteStore is a per-user hierarchical document store. Paths have the form
// "users/{uid}/{collection}" for collections and
// "users/{uid}/{collection}/{docID}" for documents.
//
// The caller sets DeviceID and Version on written documents; the store
// assigns UpdatedAt and Revision, and preserves CreatedAt of an existing
// document.
type RemoteStore interface {
	// SignInAnonymously creates a new anonymous identity and stores its
	// token for subsequent calls.
	SignInAnonymously(ctx context.Context) (models.Identity, error)

	// RefreshToken exchanges a refresh secret for a new token and stores it.
	RefreshToken(ctx context.Context, userID, refreshSecret string) (models.Identity, error)

	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the current bearer token, or "" when signed out.
	Token() string

	// WriteDocument creates or replaces the document at path and returns the
	// stored version.
	WriteDocument(ctx context.Context, path string, doc models.Document, opts WriteOptions) (models.Document, error)

	// WriteBatch writes docs into the collection in chunks of at most the
	// configured batch limit. onChunk may be nil. ctx is checked between
	// chunks. A failed chunk returns a *BatchError; chunks written before it
	// stay written.
	WriteBatch(ctx context.Context, collectionPath string, docs []models.Document, merge bool, onChunk ChunkFunc) ([]models.Document, error)

	// ReadDocument returns nil and no error when the document does not
	// exist.
	ReadDocument(ctx context.Context, path string) (*models.Document, error)

	// ReadCollection returns every document of the collection ordered by id.
	ReadCollection(ctx context.Context, collectionPath string) ([]models.Document, error)

	// DeleteDocument removes the document. Deleting a missing document is
	// not an error.
	DeleteDocument(ctx context.Context, path string) error

	// DeleteDocuments removes the listed ids in chunks and returns how many
	// existed.
	DeleteDocuments(ctx context.Context, collectionPath string, ids []string) (int, error)

	// Subscribe streams changes of the collection until ctx is cancelled or
	// the connection drops, at which point the channel is closed.
	Subscribe(ctx context.Context, collectionPath string) (<-chan models.DocumentChange, error)
}
