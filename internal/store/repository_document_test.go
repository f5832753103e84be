// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ledger-sync/models"
)

var documentRowColumns = []string{"doc_id", "encrypted_data", "data", "device_id", "version", "revision", "created_at", "updated_at"}

func newTestDocumentRepo(t *testing.T) (*documentRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &documentRepository{db: db, logger: db.logger}, mock
}

func documentRow(id string, revision int64, updated time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(documentRowColumns).
		AddRow(id, "sealed", nil, "dev-1", 1, revision, updated.Add(-time.Hour), updated)
}

func TestDocumentRepository_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		updated := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		mock.ExpectQuery("SELECT doc_id, encrypted_data, data, device_id, version, revision, created_at, updated_at FROM documents WHERE").
			WithArgs("transactions", "tx-1", "u-1").
			WillReturnRows(documentRow("tx-1", 3, updated))

		doc, err := repo.Get(context.Background(), "u-1", "transactions", "tx-1")
		require.NoError(t, err)
		assert.Equal(t, "tx-1", doc.ID)
		assert.Equal(t, int64(3), doc.Revision)
		assert.Equal(t, updated, doc.UpdatedAt)
		assert.Nil(t, doc.Data)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), "u-1", "transactions", "nope")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})
}

func TestDocumentRepository_List(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows(documentRowColumns).
		AddRow("a", "x", nil, "d", 1, 1, now, now).
		AddRow("b", "", []byte(`{"state":"complete"}`), "d", 1, 2, now, now)
	mock.ExpectQuery("SELECT .* FROM documents WHERE .* ORDER BY doc_id").
		WithArgs("transactions", "u-1").
		WillReturnRows(rows)

	docs, err := repo.List(context.Background(), "u-1", "transactions")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.JSONEq(t, `{"state":"complete"}`, string(docs[1].Data))
}

func TestDocumentRepository_ListEmpty(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows(documentRowColumns))

	docs, err := repo.List(context.Background(), "u-1", "transactions")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentRepository_PutUpsert(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO documents .* ON CONFLICT \(user_id, collection, doc_id\) DO UPDATE SET encrypted_data = EXCLUDED.encrypted_data`).
		WithArgs("u-1", "transactions", "tx-1", "sealed", nil, "dev-1", models.DocumentVersion).
		WillReturnRows(documentRow("tx-1", 2, now))

	doc, err := repo.Put(context.Background(), "u-1", "transactions",
		models.Document{ID: "tx-1", EncryptedData: "sealed", DeviceID: "dev-1"}, PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_PutMerge(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)

	mock.ExpectQuery(`ON CONFLICT .* DO UPDATE SET encrypted_data = COALESCE\(NULLIF\(EXCLUDED.encrypted_data, ''\)`).
		WithArgs("u-1", "meta", "sync", "", `{"state":"uploading"}`, "", models.DocumentVersion).
		WillReturnRows(documentRow("sync", 5, time.Now()))

	_, err := repo.Put(context.Background(), "u-1", "meta",
		models.Document{ID: "sync", Data: json.RawMessage(`{"state":"uploading"}`)}, PutOptions{Merge: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_PutCreateOnly(t *testing.T) {
	zero := int64(0)

	t.Run("created", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery(`INSERT INTO documents .* ON CONFLICT \(user_id, collection, doc_id\) DO NOTHING RETURNING`).
			WillReturnRows(documentRow("sync", 1, time.Now()))

		doc, err := repo.Put(context.Background(), "u-1", "meta", models.Document{ID: "sync"}, PutOptions{ExpectedRevision: &zero})
		require.NoError(t, err)
		assert.Equal(t, int64(1), doc.Revision)
	})

	t.Run("already exists", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery("DO NOTHING").WillReturnRows(sqlmock.NewRows(documentRowColumns))

		_, err := repo.Put(context.Background(), "u-1", "meta", models.Document{ID: "sync"}, PutOptions{ExpectedRevision: &zero})
		assert.ErrorIs(t, err, ErrRevisionConflict)
	})
}

func TestDocumentRepository_PutCompareAndSet(t *testing.T) {
	expected := int64(4)

	t.Run("match", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery(`UPDATE documents SET .* revision = revision \+ 1, updated_at = clock_timestamp\(\) WHERE .* RETURNING`).
			WillReturnRows(documentRow("sync", 5, time.Now()))

		doc, err := repo.Put(context.Background(), "u-1", "meta", models.Document{ID: "sync"}, PutOptions{ExpectedRevision: &expected})
		require.NoError(t, err)
		assert.Equal(t, int64(5), doc.Revision)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectQuery("UPDATE documents").WillReturnRows(sqlmock.NewRows(documentRowColumns))

		_, err := repo.Put(context.Background(), "u-1", "meta", models.Document{ID: "sync"}, PutOptions{ExpectedRevision: &expected})
		assert.ErrorIs(t, err, ErrRevisionConflict)
	})
}

func TestDocumentRepository_PutBatch(t *testing.T) {
	t.Run("commits all", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO documents").WillReturnRows(documentRow("a", 1, now))
		mock.ExpectQuery("INSERT INTO documents").WillReturnRows(documentRow("b", 1, now))
		mock.ExpectCommit()

		docs, err := repo.PutBatch(context.Background(), "u-1", "transactions",
			[]models.Document{{ID: "a"}, {ID: "b"}}, false)
		require.NoError(t, err)
		assert.Len(t, docs, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO documents").WillReturnRows(documentRow("a", 1, time.Now()))
		mock.ExpectQuery("INSERT INTO documents").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		docs, err := repo.PutBatch(context.Background(), "u-1", "transactions",
			[]models.Document{{ID: "a"}, {ID: "b"}}, false)
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.Nil(t, docs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectExec("DELETE FROM documents WHERE").
			WithArgs("transactions", "tx-1", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "u-1", "transactions", "tx-1"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestDocumentRepo(t)
		mock.ExpectExec("DELETE FROM documents").WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "transactions", "tx-1"), ErrDocumentNotFound)
	})
}

func TestDocumentRepository_DeleteBatch(t *testing.T) {
	repo, mock := newTestDocumentRepo(t)
	mock.ExpectExec(`DELETE FROM documents WHERE .*doc_id IN \(\$2,\$3,\$4\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.DeleteBatch(context.Background(), "u-1", "transactions", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteBatch(context.Background(), "u-1", "transactions", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
