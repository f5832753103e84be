// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

type clientLedgerService struct {
	ledger store.LedgerRepository
	ids    *utils.UUIDGenerator
	now    func() time.Time
}

// NewClientLedgerService returns a [ClientLedgerService] over ledger.
func NewClientLedgerService(ledger store.LedgerRepository) ClientLedgerService {
	return &clientLedgerService{ledger: ledger, ids: utils.NewUUIDGenerator(), now: time.Now}
}

// AddTransaction assigns an id and a creation time when tx has none.
func (s *clientLedgerService) AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.ID == "" {
		tx.ID = s.ids.Generate()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.now().UTC()
	}
	if tx.Date.IsZero() {
		tx.Date = tx.CreatedAt
	}
	if err := validateTransaction(tx); err != nil {
		return models.Transaction{}, err
	}

	if err := s.ledger.AddTransaction(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}
	return tx, nil
}

func (s *clientLedgerService) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	if err := validateTransaction(tx); err != nil {
		return err
	}
	if err := s.ledger.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (s *clientLedgerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.ledger.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (s *clientLedgerService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.ledger.ListTransactions(ctx)
}

func (s *clientLedgerService) GetSettings(ctx context.Context) (models.Settings, error) {
	return s.ledger.GetSettings(ctx)
}

func (s *clientLedgerService) SaveSettings(ctx context.Context, settings models.Settings) error {
	if strings.TrimSpace(settings.Currency) == "" {
		return fmt.Errorf("%w: settings.currency", codec.ErrMissingField)
	}
	return s.ledger.SaveSettings(ctx, settings)
}

func validateTransaction(tx models.Transaction) error {
	switch {
	case tx.ID == "":
		return fmt.Errorf("%w: transaction.id", codec.ErrMissingField)
	case strings.TrimSpace(tx.Category) == "":
		return fmt.Errorf("%w: transaction.category", codec.ErrMissingField)
	}
	return nil
}
