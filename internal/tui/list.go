// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-ledger-sync/models"
)

const listWindow = 12

type listModel struct {
	items   []models.Transaction
	idx     int
	loading bool
	lastErr error
}

func newListModel() listModel {
	return listModel{loading: true}
}

func (m listModel) current() (models.Transaction, bool) {
	if len(m.items) == 0 || m.idx < 0 || m.idx >= len(m.items) {
		return models.Transaction{}, false
	}
	return m.items[m.idx], true
}

func (m *listModel) clamp() {
	if m.idx >= len(m.items) {
		m.idx = len(m.items) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m listModel) balance() decimal.Decimal {
	total := decimal.Zero
	for _, tx := range m.items {
		total = total.Add(tx.Amount)
	}
	return total
}

func renderAmount(d decimal.Decimal) string {
	s := fmt.Sprintf("%10s", d.StringFixed(2))
	if d.IsNegative() {
		return expenseStyle.Render(s)
	}
	return incomeStyle.Render(s)
}

func (m listModel) View() string {
	if m.loading {
		return "Loading...\n"
	}
	if m.lastErr != nil {
		return errorStyle.Render("Could not load transactions: "+m.lastErr.Error()) + "\n"
	}
	if len(m.items) == 0 {
		return "No transactions\n"
	}

	// keep the cursor inside a fixed window
	start := 0
	if m.idx >= listWindow {
		start = m.idx - listWindow + 1
	}
	end := min(start+listWindow, len(m.items))

	var b strings.Builder
	for i := start; i < end; i++ {
		tx := m.items[i]
		cursor := "  "
		if i == m.idx {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%s %s  %-16s %s\n",
			cursor,
			tx.Date.Format(dateLayout),
			renderAmount(tx.Amount),
			fitText(tx.Category, 16),
			fitText(valueOrDash(tx.Note), 30),
		)
	}
	fmt.Fprintf(&b, "\n%d transactions, balance %s\n", len(m.items), m.balance().StringFixed(2))
	return b.String()
}
