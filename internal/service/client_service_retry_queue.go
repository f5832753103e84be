// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// DefaultRetryQueueCap bounds the queue when the configuration leaves it
// unset.
const DefaultRetryQueueCap = 50

type clientRetryQueue struct {
	repo     store.RetryQueueRepository
	capacity int
	logger   *logger.Logger
	now      func() time.Time
}

// NewClientRetryQueue returns a [ClientRetryQueue] holding at most capacity
// entries; a non-positive capacity means DefaultRetryQueueCap.
func NewClientRetryQueue(repo store.RetryQueueRepository, capacity int, logger *logger.Logger) ClientRetryQueue {
	if capacity <= 0 {
		capacity = DefaultRetryQueueCap
	}
	return &clientRetryQueue{repo: repo, capacity: capacity, logger: logger, now: time.Now}
}

func (q *clientRetryQueue) Enqueue(ctx context.Context, opType models.SyncOperationType, message string) error {
	op, err := q.repo.Enqueue(ctx, models.SyncOperation{
		Type:         opType,
		ErrorMessage: message,
		EnqueuedAt:   q.now().UTC(),
	}, q.capacity)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", opType, err)
	}

	q.logger.Debug().
		Str("func", "clientRetryQueue.Enqueue").
		Int64("id", op.ID).
		Str("type", string(opType)).
		Msg("sync operation queued for retry")

	return nil
}

func (q *clientRetryQueue) Drain(ctx context.Context) ([]models.SyncOperation, error) {
	ops, err := q.repo.Drain(ctx)
	if err != nil {
		return nil, fmt.Errorf("drain retry queue: %w", err)
	}
	return ops, nil
}

func (q *clientRetryQueue) Pending(ctx context.Context) ([]models.SyncOperation, error) {
	ops, err := q.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list retry queue: %w", err)
	}
	return ops, nil
}

func (q *clientRetryQueue) RemoveByType(ctx context.Context, opType models.SyncOperationType) error {
	removed, err := q.repo.RemoveByType(ctx, opType)
	if err != nil {
		return fmt.Errorf("remove %s from retry queue: %w", opType, err)
	}
	if removed > 0 {
		q.logger.Debug().
			Str("func", "clientRetryQueue.RemoveByType").
			Str("type", string(opType)).
			Int64("removed", removed).
			Msg("retry entries settled")
	}
	return nil
}
