// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/migrations"
)

// ErrorClassificator decides whether a failed database operation is worth
// retrying.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

type dialect int

const (
	dialectPostgres dialect = iota
	dialectSQLite
)

// DB wraps *sql.DB with the dialect-specific query builder, error
// classification and logger.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
	dialect            dialect
}

// Migrate applies the goose migrations of the DB's dialect.
func (db *DB) Migrate(ctx context.Context) error {
	switch db.dialect {
	case dialectSQLite:
		return migrations.MigrateSQLite(ctx, db.DB)
	default:
		return migrations.MigratePostgres(ctx, db.DB)
	}
}

// builder returns a squirrel statement builder with the placeholder format
// of the DB's dialect.
func (db *DB) builder() sq.StatementBuilderType {
	if db.dialect == dialectSQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// inTx runs fn in a transaction, committing on success and rolling back on
// error or panic.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}
	return nil
}

// classify wraps retryable driver errors with ErrStoreUnavailable.
func (db *DB) classify(err error) error {
	if err == nil || db.errorClassificator == nil {
		return err
	}
	if db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
