// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/shopspring/decimal"

	"github.com/MKhiriev/go-ledger-sync/models"
)

const (
	fieldAmount = iota
	fieldCategory
	fieldNote
	fieldDate
	fieldCount
)

var (
	errAmountRequired   = errors.New("amount is required")
	errAmountInvalid    = errors.New("amount must be a number, negative for expenses")
	errCategoryRequired = errors.New("category is required")
	errDateInvalid      = errors.New("date must look like 2026-01-31")
)

type formTransactionModel struct {
	inputs     []textinput.Model
	focus      int
	editing    bool
	original   models.Transaction
	submitting bool
}

func newFormTransactionModel(item *models.Transaction) formTransactionModel {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 40
	}
	inputs[fieldAmount].Placeholder = "-12.50"
	inputs[fieldCategory].Placeholder = "groceries"
	inputs[fieldDate].Placeholder = "today"
	inputs[fieldDate].CharLimit = len(dateLayout)
	inputs[fieldAmount].Focus()

	m := formTransactionModel{inputs: inputs}
	if item == nil {
		return m
	}

	m.editing = true
	m.original = *item
	m.inputs[fieldAmount].SetValue(item.Amount.String())
	m.inputs[fieldCategory].SetValue(item.Category)
	if item.Note != nil {
		m.inputs[fieldNote].SetValue(*item.Note)
	}
	if !item.Date.IsZero() {
		m.inputs[fieldDate].SetValue(item.Date.Format(dateLayout))
	}
	return m
}

func (m formTransactionModel) focusNext() formTransactionModel {
	return m.focusAt((m.focus + 1) % fieldCount)
}

func (m formTransactionModel) focusPrev() formTransactionModel {
	return m.focusAt((m.focus - 1 + fieldCount) % fieldCount)
}

func (m formTransactionModel) focusAt(i int) formTransactionModel {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

// toTransaction parses the inputs. A new transaction keeps an empty id and
// creation time; the ledger service assigns both.
func (m formTransactionModel) toTransaction() (models.Transaction, error) {
	tx := m.original

	rawAmount := strings.TrimSpace(m.inputs[fieldAmount].Value())
	if rawAmount == "" {
		return models.Transaction{}, errAmountRequired
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return models.Transaction{}, errAmountInvalid
	}
	tx.Amount = amount

	tx.Category = strings.TrimSpace(m.inputs[fieldCategory].Value())
	if tx.Category == "" {
		return models.Transaction{}, errCategoryRequired
	}

	tx.Note = nil
	if note := strings.TrimSpace(m.inputs[fieldNote].Value()); note != "" {
		tx.Note = &note
	}

	rawDate := strings.TrimSpace(m.inputs[fieldDate].Value())
	switch {
	case rawDate != "":
		date, err := time.ParseInLocation(dateLayout, rawDate, time.UTC)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("%w: %q", errDateInvalid, rawDate)
		}
		tx.Date = date
	case !m.editing:
		tx.Date = time.Time{}
	}
	return tx, nil
}

func (m formTransactionModel) View() string {
	title := "New transaction"
	if m.editing {
		title = "Edit transaction"
	}

	var b strings.Builder
	b.WriteString("Amount:   [" + m.inputs[fieldAmount].View() + "]\n")
	b.WriteString("Category: [" + m.inputs[fieldCategory].View() + "]\n")
	b.WriteString("Note:     [" + m.inputs[fieldNote].View() + "]\n")
	b.WriteString("Date:     [" + m.inputs[fieldDate].View() + "]")
	if m.submitting {
		b.WriteString("\n\nSaving...")
	}
	return renderPage(title, b.String(), "esc cancel  tab next field  enter save")
}
