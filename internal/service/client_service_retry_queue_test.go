// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestClientRetryQueue_Enqueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRetryQueueRepository(ctrl)
	ctx := context.Background()

	q := NewClientRetryQueue(repo, 0, logger.Nop()).(*clientRetryQueue)
	at := time.Date(2026, 6, 1, 8, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	q.now = func() time.Time { return at }

	repo.EXPECT().Enqueue(ctx, models.SyncOperation{
		Type:         models.SyncOperationBackup,
		ErrorMessage: "offline",
		EnqueuedAt:   at.UTC(),
	}, DefaultRetryQueueCap).Return(models.SyncOperation{ID: 7}, nil)

	require.NoError(t, q.Enqueue(ctx, models.SyncOperationBackup, "offline"))
}

func TestClientRetryQueue_UsesConfiguredCapacity(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRetryQueueRepository(ctrl)

	q := NewClientRetryQueue(repo, 3, logger.Nop())
	repo.EXPECT().Enqueue(gomock.Any(), gomock.Any(), 3).Return(models.SyncOperation{}, errors.New("database is locked"))

	err := q.Enqueue(context.Background(), models.SyncOperationRestore, "x")
	assert.ErrorContains(t, err, "enqueue restore")
}

func TestClientRetryQueue_DrainPendingRemove(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockRetryQueueRepository(ctrl)
	ctx := context.Background()
	q := NewClientRetryQueue(repo, 5, logger.Nop())

	ops := []models.SyncOperation{{ID: 1, Type: models.SyncOperationBackup}, {ID: 2, Type: models.SyncOperationRestore}}
	repo.EXPECT().List(ctx).Return(ops, nil)
	repo.EXPECT().Drain(ctx).Return(ops, nil)
	repo.EXPECT().RemoveByType(ctx, models.SyncOperationBackup).Return(int64(1), nil)
	repo.EXPECT().RemoveByType(ctx, models.SyncOperationRestore).Return(int64(0), errors.New("boom"))

	pending, err := q.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, ops, pending)

	drained, err := q.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, ops, drained)

	require.NoError(t, q.RemoveByType(ctx, models.SyncOperationBackup))
	assert.Error(t, q.RemoveByType(ctx, models.SyncOperationRestore))
}
