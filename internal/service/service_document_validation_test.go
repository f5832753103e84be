// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/validators"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func newValidatedDocuments(t *testing.T) (DocumentService, *mock.MockDocumentService) {
	t.Helper()
	inner := mock.NewMockDocumentService(gomock.NewController(t))
	return NewDocumentValidationService().Wrap(inner), inner
}

func TestDocumentValidationService_Put(t *testing.T) {
	ctx := context.Background()
	sealed := models.Document{ID: "tx-1", EncryptedData: "sealed", DeviceID: "dev", Version: models.DocumentVersion}
	negative := int64(-1)

	t.Run("valid write reaches the store", func(t *testing.T) {
		svc, inner := newValidatedDocuments(t)
		inner.EXPECT().Put(ctx, "u-1", models.CollectionTransactions, sealed, store.PutOptions{}).Return(sealed, nil)

		_, err := svc.Put(ctx, "u-1", models.CollectionTransactions, sealed, store.PutOptions{})
		require.NoError(t, err)
	})

	t.Run("merge may omit the payload", func(t *testing.T) {
		svc, inner := newValidatedDocuments(t)
		patch := models.Document{ID: "sync", DeviceID: "dev", Version: models.DocumentVersion}
		inner.EXPECT().Put(ctx, "u-1", models.CollectionMeta, patch, store.PutOptions{Merge: true}).Return(patch, nil)

		_, err := svc.Put(ctx, "u-1", models.CollectionMeta, patch, store.PutOptions{Merge: true})
		require.NoError(t, err)
	})

	tests := []struct {
		name       string
		userID     string
		collection string
		doc        models.Document
		opts       store.PutOptions
		want       error
	}{
		{name: "no user", collection: models.CollectionTransactions, doc: sealed, want: ErrValidationNoUserID},
		{name: "unknown collection", userID: "u-1", collection: "passwords", doc: sealed, want: validators.ErrInvalidCollection},
		{name: "bad id", userID: "u-1", collection: models.CollectionTransactions, doc: models.Document{ID: "a/b", EncryptedData: "x", Version: 1}, want: validators.ErrInvalidDocumentID},
		{name: "no payload", userID: "u-1", collection: models.CollectionTransactions, doc: models.Document{ID: "a", Version: 1}, want: validators.ErrEmptyPayload},
		{name: "both payloads", userID: "u-1", collection: models.CollectionMeta, doc: models.Document{ID: "sync", EncryptedData: "x", Data: json.RawMessage(`{}`), Version: 1}, want: validators.ErrAmbiguousPayload},
		{name: "wrong version", userID: "u-1", collection: models.CollectionTransactions, doc: models.Document{ID: "a", EncryptedData: "x", Version: 2}, want: validators.ErrInvalidVersion},
		{name: "negative revision", userID: "u-1", collection: models.CollectionMeta, doc: sealed, opts: store.PutOptions{ExpectedRevision: &negative}, want: ErrInvalidDataProvided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// the inner service has no expectations
			svc, _ := newValidatedDocuments(t)
			_, err := svc.Put(ctx, tt.userID, tt.collection, tt.doc, tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDocumentValidationService_Batches(t *testing.T) {
	ctx := context.Background()
	doc := models.Document{ID: "a", EncryptedData: "x", Version: models.DocumentVersion}

	t.Run("length mismatch", func(t *testing.T) {
		svc, _ := newValidatedDocuments(t)
		_, err := svc.PutBatch(ctx, "u-1", models.CollectionTransactions, models.BatchWriteRequest{Documents: []models.Document{doc}, Length: 2})
		assert.ErrorIs(t, err, validators.ErrBatchLengthMismatch)
	})

	t.Run("valid batch", func(t *testing.T) {
		svc, inner := newValidatedDocuments(t)
		req := models.BatchWriteRequest{Documents: []models.Document{doc}, Length: 1}
		inner.EXPECT().PutBatch(ctx, "u-1", models.CollectionTransactions, req).Return(req.Documents, nil)

		_, err := svc.PutBatch(ctx, "u-1", models.CollectionTransactions, req)
		require.NoError(t, err)
	})

	t.Run("empty delete", func(t *testing.T) {
		svc, _ := newValidatedDocuments(t)
		_, err := svc.DeleteBatch(ctx, "u-1", models.CollectionTransactions, nil)
		assert.ErrorIs(t, err, validators.ErrEmptyIDs)
	})

	t.Run("reads check the path", func(t *testing.T) {
		svc, inner := newValidatedDocuments(t)
		inner.EXPECT().List(ctx, "u-1", models.CollectionSettings).Return(nil, nil)

		_, err := svc.Get(ctx, "u-1", models.CollectionSettings, "..")
		assert.ErrorIs(t, err, validators.ErrInvalidDocumentID)
		_, err = svc.List(ctx, "u-1", models.CollectionSettings)
		assert.NoError(t, err)
		err = svc.Delete(ctx, "", models.CollectionSettings, "data")
		assert.ErrorIs(t, err, ErrValidationNoUserID)
	})
}
