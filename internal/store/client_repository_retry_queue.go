// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

type localRetryQueueRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalRetryQueueRepository constructs the SQLite-backed
// [RetryQueueRepository].
func NewLocalRetryQueueRepository(db *DB, logger *logger.Logger) RetryQueueRepository {
	return &localRetryQueueRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *localRetryQueueRepository) Enqueue(ctx context.Context, op models.SyncOperation, capacity int) (models.SyncOperation, error) {
	log := logger.FromContext(ctx)

	if op.EnqueuedAt.IsZero() {
		op.EnqueuedAt = r.now()
	}
	op.EnqueuedAt = op.EnqueuedAt.UTC()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, insertSyncOperation, string(op.Type), op.ErrorMessage, op.EnqueuedAt.Format(timeLayout))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if op.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}

		if capacity <= 0 {
			return nil
		}
		res, err = tx.ExecContext(ctx, trimSyncQueue, capacity)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		if dropped, _ := res.RowsAffected(); dropped > 0 {
			log.Warn().
				Str("func", "localRetryQueueRepository.Enqueue").
				Int64("dropped", dropped).
				Int("capacity", capacity).
				Msg("retry queue full, oldest operations dropped")
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "localRetryQueueRepository.Enqueue").Msg("failed to enqueue sync operation")
		return models.SyncOperation{}, err
	}

	return op, nil
}

func (r *localRetryQueueRepository) Drain(ctx context.Context) ([]models.SyncOperation, error) {
	var ops []models.SyncOperation
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		if ops, err = listSyncOperations(ctx, tx); err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, deleteSyncQueue); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localRetryQueueRepository.Drain").Msg("failed to drain retry queue")
		return nil, err
	}
	return ops, nil
}

func (r *localRetryQueueRepository) List(ctx context.Context) ([]models.SyncOperation, error) {
	return listSyncOperations(ctx, r.DB)
}

func (r *localRetryQueueRepository) RemoveByType(ctx context.Context, opType models.SyncOperationType) (int64, error) {
	res, err := r.ExecContext(ctx, deleteSyncQueueByType, string(opType))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return res.RowsAffected()
}

func (r *localRetryQueueRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.QueryRowContext(ctx, countSyncQueue).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return n, nil
}

func listSyncOperations(ctx context.Context, q sqlExecutor) ([]models.SyncOperation, error) {
	rows, err := q.QueryContext(ctx, selectSyncQueue)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	ops := make([]models.SyncOperation, 0)
	for rows.Next() {
		var (
			op         models.SyncOperation
			opType     string
			enqueuedAt string
		)
		if err = rows.Scan(&op.ID, &opType, &op.ErrorMessage, &enqueuedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		op.Type = models.SyncOperationType(opType)
		if op.EnqueuedAt, err = time.Parse(timeLayout, enqueuedAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	return ops, nil
}
