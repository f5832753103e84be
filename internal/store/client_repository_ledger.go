// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

type localLedgerRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalLedgerRepository constructs the SQLite-backed [LedgerRepository].
func NewLocalLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	return &localLedgerRepository{
		DB:     db,
		logger: logger,
		now:    time.Now,
	}
}

func (l *localLedgerRepository) ExportAll(ctx context.Context) ([]byte, error) {
	log := logger.FromContext(ctx)

	var dataset models.SyncableDataset
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		transactions, err := listTransactions(ctx, tx)
		if err != nil {
			return err
		}
		settings, err := getSettings(ctx, tx)
		if err != nil {
			return err
		}
		gamification, err := getGamification(ctx, tx)
		if err != nil {
			return err
		}

		dataset = models.SyncableDataset{
			Version:      codec.CurrentVersion,
			ExportDate:   l.now().UTC(),
			Transactions: transactions,
			Settings:     settings,
			Gamification: gamification,
		}
		return nil
	})
	if err != nil {
		log.Err(err).Str("func", "localLedgerRepository.ExportAll").Msg("failed to read local dataset")
		return nil, err
	}

	return codec.Serialize(dataset)
}

func (l *localLedgerRepository) ImportAll(ctx context.Context, data []byte) error {
	log := logger.FromContext(ctx)

	dataset, err := codec.Deserialize(data)
	if err != nil {
		return err
	}
	if err = codec.Validate(dataset); err != nil {
		return err
	}

	err = l.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteAllTransactions); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
		}
		for i, t := range dataset.Transactions {
			args := append([]any{t.ID, i + 1}, transactionValues(t)...)
			if _, err := tx.ExecContext(ctx, insertTransactionAt, args...); err != nil {
				return fmt.Errorf("failed to import transaction %s: %w", t.ID, err)
			}
		}

		if err := saveSettings(ctx, tx, dataset.Settings); err != nil {
			return err
		}

		if dataset.Gamification == nil {
			_, err := tx.ExecContext(ctx, deleteGamification)
			return err
		}
		return saveGamification(ctx, tx, *dataset.Gamification)
	})
	if err != nil {
		log.Err(err).Str("func", "localLedgerRepository.ImportAll").Msg("import rolled back")
		return err
	}

	log.Debug().
		Str("func", "localLedgerRepository.ImportAll").
		Int("transactions", len(dataset.Transactions)).
		Msg("dataset imported")
	return nil
}

func (l *localLedgerRepository) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return listTransactions(ctx, l.DB)
}

func (l *localLedgerRepository) AddTransaction(ctx context.Context, t models.Transaction) error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction id is empty", codec.ErrInvalidDataset)
	}

	return l.mutate(ctx, "AddTransaction", func(tx *sql.Tx) error {
		args := append([]any{t.ID}, transactionValues(t)...)
		_, err := tx.ExecContext(ctx, insertTransaction, args...)
		return err
	})
}

func (l *localLedgerRepository) UpdateTransaction(ctx context.Context, t models.Transaction) error {
	return l.mutate(ctx, "UpdateTransaction", func(tx *sql.Tx) error {
		args := append(transactionValues(t), t.ID)
		res, err := tx.ExecContext(ctx, updateTransaction, args...)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

func (l *localLedgerRepository) DeleteTransaction(ctx context.Context, id string) error {
	return l.mutate(ctx, "DeleteTransaction", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteTransaction, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

func (l *localLedgerRepository) GetSettings(ctx context.Context) (models.Settings, error) {
	return getSettings(ctx, l.DB)
}

func (l *localLedgerRepository) SaveSettings(ctx context.Context, settings models.Settings) error {
	return l.mutate(ctx, "SaveSettings", func(tx *sql.Tx) error {
		return saveSettings(ctx, tx, settings)
	})
}

func (l *localLedgerRepository) GetGamification(ctx context.Context) (*models.Gamification, error) {
	return getGamification(ctx, l.DB)
}

func (l *localLedgerRepository) SaveGamification(ctx context.Context, g models.Gamification) error {
	return l.mutate(ctx, "SaveGamification", func(tx *sql.Tx) error {
		return saveGamification(ctx, tx, g)
	})
}

// mutate runs fn and bumps the local sync time in the same transaction.
func (l *localLedgerRepository) mutate(ctx context.Context, name string, fn func(tx *sql.Tx) error) error {
	err := l.inTx(ctx, func(tx *sql.Tx) error {
		if err := fn(tx); err != nil {
			return err
		}
		return touchLocalSyncTime(ctx, tx, l.now())
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.FromContext(ctx).Err(err).Str("func", "localLedgerRepository."+name).Msg("local mutation failed")
	}
	return err
}

func listTransactions(ctx context.Context, q sqlExecutor) ([]models.Transaction, error) {
	rows, err := q.QueryContext(ctx, selectAllTransactions)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			t                       models.Transaction
			amount, date, createdAt string
			note                    sql.NullString
		)
		if err = rows.Scan(&t.ID, &amount, &t.Category, &note, &date, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("transaction %s: bad amount: %w", t.ID, err)
		}
		if t.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("transaction %s: bad date: %w", t.ID, err)
		}
		if t.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("transaction %s: bad createdAt: %w", t.ID, err)
		}
		if note.Valid {
			t.Note = &note.String
		}

		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return transactions, nil
}

// transactionValues returns amount, category, note, date and createdAt in
// column order.
func transactionValues(t models.Transaction) []any {
	var note any
	if t.Note != nil {
		note = *t.Note
	}
	return []any{
		t.Amount.String(),
		t.Category,
		note,
		t.Date.UTC().Format(timeLayout),
		t.CreatedAt.UTC().Format(timeLayout),
	}
}

func getSettings(ctx context.Context, q sqlExecutor) (models.Settings, error) {
	var body string
	err := q.QueryRowContext(ctx, selectSettings).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return codec.DecodeSettings([]byte(body))
}

func saveSettings(ctx context.Context, q sqlExecutor, settings models.Settings) error {
	body, err := codec.EncodeSettings(settings)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, upsertSettings, string(body)); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func getGamification(ctx context.Context, q sqlExecutor) (*models.Gamification, error) {
	var body string
	err := q.QueryRowContext(ctx, selectGamification).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	g, err := codec.DecodeGamification([]byte(body))
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func saveGamification(ctx context.Context, q sqlExecutor, g models.Gamification) error {
	body, err := codec.EncodeGamification(g)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, upsertGamification, string(body)); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
