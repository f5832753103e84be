// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const timeLayout = time.RFC3339Nano

// sqlExecutor is satisfied by *sql.DB and *sql.Tx.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type localMetadataRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalMetadataRepository constructs the SQLite-backed [MetadataRepository].
func NewLocalMetadataRepository(db *DB, logger *logger.Logger) MetadataRepository {
	return &localMetadataRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (r *localMetadataRepository) GetSyncMetadata(ctx context.Context) (models.SyncMetadata, error) {
	meta, err := loadSyncMetadata(ctx, r.DB)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "localMetadataRepository.GetSyncMetadata").Msg("failed to read sync metadata")
	}
	return meta, err
}

func (r *localMetadataRepository) SaveSyncMetadata(ctx context.Context, meta models.SyncMetadata) error {
	return putKV(ctx, r.DB, kvSyncMetadata, meta, r.now())
}

func (r *localMetadataRepository) DeleteSyncMetadata(ctx context.Context) error {
	return deleteKeys(ctx, r.DB, kvSyncMetadata)
}

func (r *localMetadataRepository) GetDeviceID(ctx context.Context) (string, error) {
	var deviceID string
	if err := getKV(ctx, r.DB, kvDeviceID, &deviceID); err != nil {
		return "", err
	}
	return deviceID, nil
}

func (r *localMetadataRepository) SaveDeviceID(ctx context.Context, deviceID string) error {
	if deviceID == "" {
		return errors.New("device id is empty")
	}
	return putKV(ctx, r.DB, kvDeviceID, deviceID, r.now())
}

func (r *localMetadataRepository) GetIdentity(ctx context.Context) (models.Identity, error) {
	var identity models.Identity
	if err := getKV(ctx, r.DB, kvIdentity, &identity); err != nil {
		return models.Identity{}, err
	}
	return identity, nil
}

func (r *localMetadataRepository) SaveIdentity(ctx context.Context, identity models.Identity) error {
	return putKV(ctx, r.DB, kvIdentity, identity, r.now())
}

func (r *localMetadataRepository) DeleteIdentity(ctx context.Context) error {
	return deleteKeys(ctx, r.DB, kvIdentity)
}

// loadSyncMetadata returns zero metadata when none is stored.
func loadSyncMetadata(ctx context.Context, q sqlExecutor) (models.SyncMetadata, error) {
	var meta models.SyncMetadata
	err := getKV(ctx, q, kvSyncMetadata, &meta)
	if errors.Is(err, ErrNotFound) {
		return models.SyncMetadata{}, nil
	}
	return meta, err
}

// touchLocalSyncTime advances lastLocalSyncTime to max(now, previous+1ms).
func touchLocalSyncTime(ctx context.Context, q sqlExecutor, now time.Time) error {
	meta, err := loadSyncMetadata(ctx, q)
	if err != nil {
		return err
	}

	next := NextLocalSyncTime(meta.LastLocalSyncTime, now)
	meta.LastLocalSyncTime = &next

	return putKV(ctx, q, kvSyncMetadata, meta, now)
}

// NextLocalSyncTime returns now, or previous+1ms when the clock has not
// moved past it.
func NextLocalSyncTime(previous *time.Time, now time.Time) time.Time {
	now = now.UTC()
	if previous == nil {
		return now
	}
	if floor := previous.UTC().Add(time.Millisecond); !now.After(floor) {
		return floor
	}
	return now
}

func getKV(ctx context.Context, q sqlExecutor, key string, dest any) error {
	var value string
	err := q.QueryRowContext(ctx, selectKV, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err = json.Unmarshal([]byte(value), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func putKV(ctx context.Context, q sqlExecutor, key string, value any, now time.Time) error {
	body, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if _, err = q.ExecContext(ctx, upsertKV, key, string(body), now.UTC().Format(timeLayout)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "putKV").Str("key", key).Msg("failed to save value")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func deleteKeys(ctx context.Context, q sqlExecutor, keys ...string) error {
	for _, key := range keys {
		if _, err := q.ExecContext(ctx, deleteKV, key); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
	}
	return nil
}
