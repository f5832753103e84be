// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// SyncableDataset is the portable snapshot of everything that is backed up:
// the complete transaction list, the settings and the optional gamification
// record. It is the unit of whole-dataset last-write-wins.
type SyncableDataset struct {
	// Version is the "<major>.<minor>" schema version of the snapshot.
	Version string `json:"version"`

	// ExportDate is when the snapshot was produced.
	ExportDate time.Time `json:"exportDate"`

	// Transactions keeps the order the local store produced.
	Transactions []Transaction `json:"transactions"`

	Settings Settings `json:"settings"`

	// Gamification is nil when the user never earned any progress.
	Gamification *Gamification `json:"gamification,omitempty"`
}

// Equal reports structural equality of two datasets. ExportDate is compared
// by instant; decimals by value.
func (d SyncableDataset) Equal(o SyncableDataset) bool {
	if d.Version != o.Version || !d.ExportDate.Equal(o.ExportDate) {
		return false
	}
	if len(d.Transactions) != len(o.Transactions) {
		return false
	}
	for i := range d.Transactions {
		if !d.Transactions[i].Equal(o.Transactions[i]) {
			return false
		}
	}
	if !d.Settings.Equal(o.Settings) {
		return false
	}
	if (d.Gamification == nil) != (o.Gamification == nil) {
		return false
	}
	return d.Gamification == nil || d.Gamification.Equal(*o.Gamification)
}
