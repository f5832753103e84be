// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// TUI is the terminal front end of the client.
type TUI struct {
	services *service.ClientServices
	info     models.AppBuildInfo
	logger   *logger.Logger
}

// New builds a TUI over services. The sync, ledger and key services must be
// set.
func New(services *service.ClientServices, info models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if services == nil || services.SyncService == nil || services.LedgerService == nil || services.KeyService == nil {
		return nil, ErrMissingServices
	}
	return &TUI{services: services, info: info, logger: logger}, nil
}

// Run shows the status monitor and blocks until the user quits or ctx is
// done. Cancellation through ctx is not an error.
func (t *TUI) Run(ctx context.Context) error {
	statuses, release := t.services.SyncService.Subscribe()
	defer release()

	model := newAppModel(ctx, t.services, t.info, statuses)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		t.logger.Err(err).Str("func", "TUI.Run").Msg("terminal program failed")
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}
