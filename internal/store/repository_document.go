// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const (
	documentsTable   = "documents"
	documentColumns  = "doc_id, encrypted_data, data, device_id, version, revision, created_at, updated_at"
	documentConflict = "ON CONFLICT (user_id, collection, doc_id) DO UPDATE SET "

	replaceSet = "encrypted_data = EXCLUDED.encrypted_data, " +
		"data = EXCLUDED.data, " +
		"device_id = EXCLUDED.device_id, " +
		"version = EXCLUDED.version, " +
		"revision = documents.revision + 1, " +
		"updated_at = clock_timestamp()"

	mergeSet = "encrypted_data = COALESCE(NULLIF(EXCLUDED.encrypted_data, ''), documents.encrypted_data), " +
		"data = CASE WHEN EXCLUDED.data IS NULL THEN documents.data " +
		"ELSE COALESCE(documents.data, '{}'::jsonb) || EXCLUDED.data END, " +
		"device_id = COALESCE(NULLIF(EXCLUDED.device_id, ''), documents.device_id), " +
		"version = EXCLUDED.version, " +
		"revision = documents.revision + 1, " +
		"updated_at = clock_timestamp()"
)

// queryRower is satisfied by *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// documentRepository is the PostgreSQL-backed implementation of
// [DocumentRepository].
type documentRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewDocumentRepository constructs a [DocumentRepository].
func NewDocumentRepository(db *DB, logger *logger.Logger) DocumentRepository {
	logger.Debug().Msg("creating document repository")
	return &documentRepository{
		db:     db,
		logger: logger,
	}
}

// Get implements [DocumentRepository].
func (r *documentRepository) Get(ctx context.Context, userID, collection, docID string) (models.Document, error) {
	query, args, err := r.db.builder().
		Select(documentColumns).
		From(documentsTable).
		Where(sq.Eq{"user_id": userID, "collection": collection, "doc_id": docID}).
		ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, ErrDocumentNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentRepository.Get").Msg("error selecting document")
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	return doc, nil
}

// List implements [DocumentRepository]. Documents are ordered by id.
func (r *documentRepository) List(ctx context.Context, userID, collection string) ([]models.Document, error) {
	query, args, err := r.db.builder().
		Select(documentColumns).
		From(documentsTable).
		Where(sq.Eq{"user_id": userID, "collection": collection}).
		OrderBy("doc_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentRepository.List").Msg("error selecting documents")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}
	defer rows.Close()

	docs := make([]models.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return docs, nil
}

// Put implements [DocumentRepository].
func (r *documentRepository) Put(ctx context.Context, userID, collection string, doc models.Document, opts PutOptions) (models.Document, error) {
	stored, err := r.put(ctx, r.db, userID, collection, doc, opts)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*documentRepository.Put").
			Str("collection", collection).
			Str("doc_id", doc.ID).
			Msg("error writing document")
	}
	return stored, err
}

// PutBatch implements [DocumentRepository].
func (r *documentRepository) PutBatch(ctx context.Context, userID, collection string, docs []models.Document, merge bool) ([]models.Document, error) {
	stored := make([]models.Document, 0, len(docs))

	err := r.db.inTx(ctx, func(tx *sql.Tx) error {
		for _, doc := range docs {
			saved, err := r.put(ctx, tx, userID, collection, doc, PutOptions{Merge: merge})
			if err != nil {
				return err
			}
			stored = append(stored, saved)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*documentRepository.PutBatch").
			Str("collection", collection).
			Int("size", len(docs)).
			Msg("batch write rolled back")
		return nil, err
	}

	return stored, nil
}

// Delete implements [DocumentRepository].
func (r *documentRepository) Delete(ctx context.Context, userID, collection, docID string) error {
	n, err := r.deleteWhere(ctx, sq.Eq{"user_id": userID, "collection": collection, "doc_id": docID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// DeleteBatch implements [DocumentRepository].
func (r *documentRepository) DeleteBatch(ctx context.Context, userID, collection string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return r.deleteWhere(ctx, sq.Eq{"user_id": userID, "collection": collection, "doc_id": ids})
}

func (r *documentRepository) deleteWhere(ctx context.Context, where sq.Eq) (int64, error) {
	query, args, err := r.db.builder().Delete(documentsTable).Where(where).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*documentRepository.deleteWhere").Msg("error deleting documents")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func (r *documentRepository) put(ctx context.Context, q queryRower, userID, collection string, doc models.Document, opts PutOptions) (models.Document, error) {
	version := doc.Version
	if version == 0 {
		version = models.DocumentVersion
	}

	var (
		builder sq.Sqlizer
		isCAS   = opts.ExpectedRevision != nil
	)

	switch {
	case isCAS && *opts.ExpectedRevision > 0:
		builder = r.casUpdate(userID, collection, doc, version, *opts.ExpectedRevision, opts.Merge)
	case isCAS:
		// revision 0: create only
		builder = r.insert(userID, collection, doc, version).
			Suffix("ON CONFLICT (user_id, collection, doc_id) DO NOTHING RETURNING " + documentColumns)
	default:
		set := replaceSet
		if opts.Merge {
			set = mergeSet
		}
		builder = r.insert(userID, collection, doc, version).
			Suffix(documentConflict + set + " RETURNING " + documentColumns)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	stored, err := scanDocument(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) && isCAS {
		return models.Document{}, ErrRevisionConflict
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.classify(err))
	}

	return stored, nil
}

func (r *documentRepository) insert(userID, collection string, doc models.Document, version int) sq.InsertBuilder {
	return r.db.builder().
		Insert(documentsTable).
		Columns("user_id", "collection", "doc_id", "encrypted_data", "data", "device_id", "version").
		Values(userID, collection, doc.ID, doc.EncryptedData, nullableJSON(doc.Data), doc.DeviceID, version)
}

func (r *documentRepository) casUpdate(userID, collection string, doc models.Document, version int, expected int64, merge bool) sq.UpdateBuilder {
	b := r.db.builder().Update(documentsTable)

	if merge {
		b = b.
			Set("encrypted_data", sq.Expr("COALESCE(NULLIF(?, ''), encrypted_data)", doc.EncryptedData)).
			Set("data", sq.Expr("CASE WHEN ?::jsonb IS NULL THEN data ELSE COALESCE(data, '{}'::jsonb) || ?::jsonb END",
				nullableJSON(doc.Data), nullableJSON(doc.Data))).
			Set("device_id", sq.Expr("COALESCE(NULLIF(?, ''), device_id)", doc.DeviceID))
	} else {
		b = b.
			Set("encrypted_data", doc.EncryptedData).
			Set("data", nullableJSON(doc.Data)).
			Set("device_id", doc.DeviceID)
	}

	return b.
		Set("version", version).
		Set("revision", sq.Expr("revision + 1")).
		Set("updated_at", sq.Expr("clock_timestamp()")).
		Where(sq.Eq{"user_id": userID, "collection": collection, "doc_id": doc.ID, "revision": expected}).
		Suffix("RETURNING " + documentColumns)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc  models.Document
		data []byte
	)
	err := row.Scan(&doc.ID, &doc.EncryptedData, &data, &doc.DeviceID, &doc.Version, &doc.Revision, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return models.Document{}, err
	}
	if len(data) > 0 {
		doc.Data = data
	}
	return doc, nil
}

func nullableJSON(data []byte) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}
