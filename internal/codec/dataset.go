// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec converts between the in-memory dataset and its versioned
// JSON document, and encodes the individual records stored remotely.
//
// Serialize and Deserialize are inverse: Deserialize(Serialize(d)) is
// structurally equal to d for every dataset produced by the local store.
package codec

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/go-ledger-sync/models"
)

const (
	// CurrentMajor and CurrentMinor make up the schema version written by
	// this build.
	CurrentMajor = 1
	CurrentMinor = 0
)

// CurrentVersion is the "<major>.<minor>" string written into new snapshots.
var CurrentVersion = strconv.Itoa(CurrentMajor) + "." + strconv.Itoa(CurrentMinor)

// wireDataset keeps records raw so each one goes through its typed decoder.
type wireDataset struct {
	Version      *string           `json:"version"`
	ExportDate   time.Time         `json:"exportDate"`
	Transactions []json.RawMessage `json:"transactions"`
	Settings     json.RawMessage   `json:"settings"`
	Gamification json.RawMessage   `json:"gamification"`
}

// Serialize encodes dataset as the versioned JSON document. An empty
// Version is stamped with CurrentVersion; a nil transaction list is written
// as an empty array.
func Serialize(dataset models.SyncableDataset) ([]byte, error) {
	if dataset.Version == "" {
		dataset.Version = CurrentVersion
	}
	if dataset.Transactions == nil {
		dataset.Transactions = []models.Transaction{}
	}

	data, err := json.Marshal(dataset)
	if err != nil {
		return nil, fmt.Errorf("error serializing dataset: %w", err)
	}
	return data, nil
}

// Deserialize parses a versioned JSON document.
//
// A different major version is rejected with ErrUnsupportedVersion. A newer
// minor version is read best-effort: unknown fields are ignored. Every record
// is parsed with its typed decoder, so a record missing a required field
// fails the whole document.
func Deserialize(data []byte) (models.SyncableDataset, error) {
	var wire wireDataset
	if err := json.Unmarshal(data, &wire); err != nil {
		return models.SyncableDataset{}, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	if wire.Version == nil {
		return models.SyncableDataset{}, fmt.Errorf("%w: version is missing", ErrMalformedDocument)
	}
	if err := CheckVersion(*wire.Version); err != nil {
		return models.SyncableDataset{}, err
	}

	dataset := models.SyncableDataset{
		Version:      *wire.Version,
		ExportDate:   wire.ExportDate,
		Transactions: make([]models.Transaction, 0, len(wire.Transactions)),
	}

	for i, raw := range wire.Transactions {
		tx, err := DecodeTransaction(raw)
		if err != nil {
			return models.SyncableDataset{}, fmt.Errorf("transaction #%d: %w", i, err)
		}
		dataset.Transactions = append(dataset.Transactions, tx)
	}

	if isAbsent(wire.Settings) {
		return models.SyncableDataset{}, fmt.Errorf("%w: settings", ErrMissingField)
	}
	settings, err := DecodeSettings(wire.Settings)
	if err != nil {
		return models.SyncableDataset{}, fmt.Errorf("settings: %w", err)
	}
	dataset.Settings = settings

	if !isAbsent(wire.Gamification) {
		g, err := DecodeGamification(wire.Gamification)
		if err != nil {
			return models.SyncableDataset{}, fmt.Errorf("gamification: %w", err)
		}
		dataset.Gamification = &g
	}

	return dataset, nil
}

// CheckVersion accepts "<major>[.<minor>]" strings whose major equals
// CurrentMajor.
func CheckVersion(version string) error {
	majorPart, _, _ := strings.Cut(version, ".")
	major, err := strconv.Atoi(majorPart)
	if err != nil {
		return fmt.Errorf("%w: bad version %q", ErrMalformedDocument, version)
	}
	if major != CurrentMajor {
		return fmt.Errorf("%w: %s (supported %d.x)", ErrUnsupportedVersion, version, CurrentMajor)
	}
	return nil
}

// Validate checks dataset invariants that JSON parsing alone cannot: unique
// non-empty transaction ids, non-empty categories and a known version.
func Validate(dataset models.SyncableDataset) error {
	if err := CheckVersion(dataset.Version); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	seen := make(map[string]struct{}, len(dataset.Transactions))
	for i, tx := range dataset.Transactions {
		if tx.ID == "" {
			return fmt.Errorf("%w: transaction #%d has empty id", ErrInvalidDataset, i)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("%w: duplicate transaction id %s", ErrInvalidDataset, tx.ID)
		}
		seen[tx.ID] = struct{}{}

		if tx.Category == "" {
			return fmt.Errorf("%w: transaction %s has empty category", ErrInvalidDataset, tx.ID)
		}
	}

	if dataset.Settings.Currency == "" {
		return fmt.Errorf("%w: settings currency is empty", ErrInvalidDataset)
	}

	return nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
