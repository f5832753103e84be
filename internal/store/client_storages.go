// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// ClientStorages groups the client-side repositories. All of them share one
// SQLite database.
type ClientStorages struct {
	LedgerRepository     LedgerRepository
	MetadataRepository   MetadataRepository
	RetryQueueRepository RetryQueueRepository

	db *DB
}

// NewClientStorages opens the SQLite file at cfg.DSN, applies pending
// migrations and wires the repositories.
func NewClientStorages(ctx context.Context, cfg config.DB, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		LedgerRepository:     NewLocalLedgerRepository(db, logger),
		MetadataRepository:   NewLocalMetadataRepository(db, logger),
		RetryQueueRepository: NewLocalRetryQueueRepository(db, logger),
		db:                   db,
	}, nil
}

// Close releases the database handle.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
