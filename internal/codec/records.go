// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import (
	"encoding/json"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/models"
)

var (
	transactionRequired  = []string{"id", "amount", "category", "date", "createdAt"}
	settingsRequired     = []string{"currency"}
	gamificationRequired = []string{"level", "xp"}
)

// EncodeTransaction returns the JSON stored (encrypted) in a transaction
// document.
func EncodeTransaction(tx models.Transaction) ([]byte, error) {
	return json.Marshal(tx)
}

// DecodeTransaction parses a transaction record and fails with
// ErrMissingField if any of id, amount, category, date or createdAt is
// absent.
func DecodeTransaction(data []byte) (models.Transaction, error) {
	if err := requireFields(data, transactionRequired); err != nil {
		return models.Transaction{}, err
	}

	var tx models.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if tx.ID == "" {
		return models.Transaction{}, fmt.Errorf("%w: id is empty", ErrMissingField)
	}

	return tx, nil
}

// EncodeSettings returns the JSON of the settings document, unknown keys
// included.
func EncodeSettings(s models.Settings) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSettings parses the settings record. Only currency is required;
// unknown keys land in Settings.Extra.
func DecodeSettings(data []byte) (models.Settings, error) {
	if err := requireFields(data, settingsRequired); err != nil {
		return models.Settings{}, err
	}

	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return models.Settings{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return s, nil
}

// EncodeGamification returns the JSON of the gamification document.
func EncodeGamification(g models.Gamification) ([]byte, error) {
	return json.Marshal(g)
}

// DecodeGamification parses the gamification record; level and xp are
// required.
func DecodeGamification(data []byte) (models.Gamification, error) {
	if err := requireFields(data, gamificationRequired); err != nil {
		return models.Gamification{}, err
	}

	var g models.Gamification
	if err := json.Unmarshal(data, &g); err != nil {
		return models.Gamification{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return g, nil
}

func requireFields(data []byte, fields []string) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: not an object", ErrMalformedDocument)
	}

	for _, f := range fields {
		v, ok := raw[f]
		if !ok || isAbsent(v) {
			return fmt.Errorf("%w: %s", ErrMissingField, f)
		}
	}
	return nil
}
