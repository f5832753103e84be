// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry. ID is the identity of the record
// across devices; every other field is user data.
type Transaction struct {
	// ID is the stable client-generated identifier (UUID string).
	ID string `json:"id"`

	// Amount is a signed monetary value. Negative values are expenses,
	// positive values are income.
	Amount decimal.Decimal `json:"amount"`

	// Category is the user-facing category label (e.g. "groceries").
	Category string `json:"category"`

	// Note is an optional free-form comment. Omitted from JSON when nil.
	Note *string `json:"note,omitempty"`

	// Date is the business date of the transaction.
	Date time.Time `json:"date"`

	// CreatedAt is when the record was first created on any device.
	CreatedAt time.Time `json:"createdAt"`
}

// Equal reports whether two transactions carry the same data. Amounts are
// compared by value and timestamps by instant.
func (t Transaction) Equal(o Transaction) bool {
	if t.ID != o.ID || t.Category != o.Category {
		return false
	}
	if !t.Amount.Equal(o.Amount) {
		return false
	}
	if !t.Date.Equal(o.Date) || !t.CreatedAt.Equal(o.CreatedAt) {
		return false
	}
	if (t.Note == nil) != (o.Note == nil) {
		return false
	}
	return t.Note == nil || *t.Note == *o.Note
}
