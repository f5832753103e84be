// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/internal/validators"
	"github.com/MKhiriev/go-ledger-sync/models"
)

var storedAt = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func storedDoc(id string, revision int64) models.Document {
	return models.Document{
		ID:            id,
		EncryptedData: "c2VhbGVk",
		DeviceID:      "laptop-0a1b2c3d-1780000000",
		Version:       models.DocumentVersion,
		Revision:      revision,
		CreatedAt:     storedAt,
		UpdatedAt:     storedAt,
	}
}

func TestOwnerOnly(t *testing.T) {
	h, m := newTestHandler(t, nil)
	m.signedIn()

	rec := serve(t, h.Init(), http.MethodGet, "/api/users/someone-else/transactions", nil, withBearer())

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetDocument(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Get(gomock.Any(), testUserID, "transactions", "t-1").Return(storedDoc("t-1", 3), nil)

		rec := serve(t, h.Init(), http.MethodGet, "/api/users/u-1/transactions/t-1", nil, withBearer())

		require.Equal(t, http.StatusOK, rec.Code)
		var doc models.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, int64(3), doc.Revision)
		assert.True(t, doc.UpdatedAt.Equal(storedAt))
	})

	t.Run("missing", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Get(gomock.Any(), testUserID, "meta", "sync").
			Return(models.Document{}, fmt.Errorf("get meta/sync: %w", store.ErrDocumentNotFound))

		rec := serve(t, h.Init(), http.MethodGet, "/api/users/u-1/meta/sync", nil, withBearer())

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, decodeError(t, rec), store.ErrDocumentNotFound.Error())
	})

	t.Run("unknown collection", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Get(gomock.Any(), testUserID, "secrets", "x").Return(models.Document{}, validators.ErrInvalidCollection)

		rec := serve(t, h.Init(), http.MethodGet, "/api/users/u-1/secrets/x", nil, withBearer())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListDocuments(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().List(gomock.Any(), testUserID, "transactions").Return(nil, nil)

		rec := serve(t, h.Init(), http.MethodGet, "/api/users/u-1/transactions", nil, withBearer())

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"documents":[],"length":0}`, rec.Body.String())
	})

	t.Run("store unavailable", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().List(gomock.Any(), testUserID, "transactions").Return(nil, store.ErrStoreUnavailable)

		rec := serve(t, h.Init(), http.MethodGet, "/api/users/u-1/transactions", nil, withBearer())

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, http.StatusText(http.StatusServiceUnavailable), decodeError(t, rec))
	})
}

func TestPutDocument(t *testing.T) {
	body := models.Document{Data: json.RawMessage(`{"state":"complete"}`), DeviceID: "dev-1", Version: models.DocumentVersion}

	t.Run("check-and-set with merge", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Put(gomock.Any(), testUserID, "meta", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, _, _ string, doc models.Document, opts store.PutOptions) (models.Document, error) {
				assert.Equal(t, "sync", doc.ID)
				assert.True(t, opts.Merge)
				require.NotNil(t, opts.ExpectedRevision)
				assert.Equal(t, int64(4), *opts.ExpectedRevision)
				return storedDoc("sync", 5), nil
			})

		rec := serve(t, h.Init(), http.MethodPut, "/api/users/u-1/meta/sync?merge=true", body, withBearer(), withHeader("If-Match", "4"))

		require.Equal(t, http.StatusOK, rec.Code)
		var doc models.Document
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
		assert.Equal(t, int64(5), doc.Revision)
	})

	t.Run("plain write", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Put(gomock.Any(), testUserID, "settings", gomock.Cond(func(d models.Document) bool { return d.ID == "data" }), store.PutOptions{}).
			Return(storedDoc("data", 1), nil)

		rec := serve(t, h.Init(), http.MethodPut, "/api/users/u-1/settings/data", body, withBearer())

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("revision conflict", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Put(gomock.Any(), testUserID, "meta", gomock.Cond(func(d models.Document) bool { return d.ID == "sync" }), gomock.Any()).
			Return(models.Document{}, fmt.Errorf("put meta/sync: %w", store.ErrRevisionConflict))

		rec := serve(t, h.Init(), http.MethodPut, "/api/users/u-1/meta/sync", body, withBearer(), withHeader("If-Match", "0"))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	rejected := []struct {
		name string
		path string
		body any
		opts []requestOption
	}{
		{name: "id differs from path", path: "/api/users/u-1/meta/sync", body: models.Document{ID: "other", Data: body.Data}},
		{name: "bad If-Match", path: "/api/users/u-1/meta/sync", body: body, opts: []requestOption{withHeader("If-Match", `"etag"`)}},
		{name: "negative If-Match", path: "/api/users/u-1/meta/sync", body: body, opts: []requestOption{withHeader("If-Match", "-1")}},
		{name: "bad merge flag", path: "/api/users/u-1/meta/sync?merge=maybe", body: body},
		{name: "invalid JSON", path: "/api/users/u-1/meta/sync", body: "{"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t, nil)
			m.signedIn()

			rec := serve(t, h.Init(), http.MethodPut, tt.path, tt.body, append(tt.opts, withBearer())...)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPutBatch(t *testing.T) {
	req := models.BatchWriteRequest{
		Documents: []models.Document{storedDoc("t-1", 0), storedDoc("t-2", 0)},
		Length:    2,
	}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	hashed := &config.ServerConfig{App: config.App{HashKey: testHashKey}}
	validHash := utils.NewHasher(testHashKey).HashHex(payload)

	t.Run("stored", func(t *testing.T) {
		h, m := newTestHandler(t, hashed)
		m.signedIn()
		m.docs.EXPECT().PutBatch(gomock.Any(), testUserID, "transactions", gomock.Any()).
			DoAndReturn(func(_ any, _, _ string, got models.BatchWriteRequest) ([]models.Document, error) {
				assert.Len(t, got.Documents, 2)
				return []models.Document{storedDoc("t-1", 1), storedDoc("t-2", 1)}, nil
			})

		rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/batch", payload,
			withBearer(), withHeader(hashHeader, validHash))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp models.BatchWriteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Documents, 2)
	})

	t.Run("no hash key configured", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().PutBatch(gomock.Any(), testUserID, "transactions", gomock.Any()).Return(nil, nil)

		rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/batch", payload, withBearer())

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for name, hash := range map[string]string{"missing hash": "", "wrong hash": utils.NewHasher("other").HashHex(payload)} {
		t.Run(name, func(t *testing.T) {
			h, m := newTestHandler(t, hashed)
			m.signedIn()

			opts := []requestOption{withBearer()}
			if hash != "" {
				opts = append(opts, withHeader(hashHeader, hash))
			}
			rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/batch", payload, opts...)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "Integrity check failed", decodeError(t, rec))
		})
	}

	t.Run("too large", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().PutBatch(gomock.Any(), testUserID, "transactions", gomock.Any()).Return(nil, validators.ErrBatchTooLarge)

		rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/batch", payload, withBearer())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteDocuments(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().Delete(gomock.Any(), testUserID, "gamification", "data").Return(nil)

		rec := serve(t, h.Init(), http.MethodDelete, "/api/users/u-1/gamification/data", nil, withBearer())

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("batch", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().DeleteBatch(gomock.Any(), testUserID, "transactions", []string{"t-1", "t-2"}).Return(1, nil)

		rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/delete",
			models.BatchDeleteRequest{IDs: []string{"t-1", "t-2"}}, withBearer())

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"deleted":1}`, rec.Body.String())
	})

	t.Run("batch without ids", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.signedIn()
		m.docs.EXPECT().DeleteBatch(gomock.Any(), testUserID, "transactions", gomock.Any()).Return(0, validators.ErrEmptyIDs)

		rec := serve(t, h.Init(), http.MethodPost, "/api/users/u-1/transactions/delete", models.BatchDeleteRequest{}, withBearer())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
