// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestClientLedgerService_AddFillsDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockLedgerRepository(ctrl)
	svc := NewClientLedgerService(repo).(*clientLedgerService)
	now := time.Date(2026, 6, 1, 15, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return now }

	repo.EXPECT().AddTransaction(gomock.Any(), gomock.Any()).Return(nil)

	tx, err := svc.AddTransaction(context.Background(), models.Transaction{Amount: decimal.NewFromInt(-3), Category: "coffee"})
	require.NoError(t, err)

	parsed, err := uuid.Parse(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Equal(t, now, tx.CreatedAt)
	assert.Equal(t, now, tx.Date)
}

func TestClientLedgerService_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	// the repository is never reached
	svc := NewClientLedgerService(mock.NewMockLedgerRepository(ctrl))
	ctx := context.Background()

	_, err := svc.AddTransaction(ctx, models.Transaction{Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, codec.ErrMissingField)

	err = svc.UpdateTransaction(ctx, models.Transaction{Category: "rent"})
	assert.ErrorIs(t, err, codec.ErrMissingField)

	err = svc.SaveSettings(ctx, models.Settings{Currency: "  "})
	assert.ErrorIs(t, err, codec.ErrMissingField)
}
