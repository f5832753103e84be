// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/internal/workers"
)

// ErrNotConfigured is returned by NewApp when a dependency is missing.
var ErrNotConfigured = errors.New("client: app is not configured")

// App runs the UI in the foreground and the sync job in the background.
type App struct {
	services *service.ClientServices
	ui       UI
	workers  *workers.Workers
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, logger *logger.Logger) (*App, error) {
	if services == nil || services.IdentityService == nil || services.SyncJob == nil || ui == nil {
		return nil, ErrNotConfigured
	}

	return &App{
		services: services,
		ui:       ui,
		workers:  workers.NewWorkers(services.SyncJob),
		logger:   logger,
	}, nil
}

// Run blocks until the UI exits or the process receives SIGINT/SIGTERM.
// The background job is stopped before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := a.logger.With().Str("func", "App.Run").Logger()

	deviceID, err := a.services.IdentityService.GetOrCreateDeviceID(ctx)
	if err != nil {
		return fmt.Errorf("resolve device id: %w", err)
	}
	log.Info().Str("device_id", deviceID).Msg("client starting")

	a.workers.Run()
	defer func() {
		a.workers.Stop()
		log.Info().Msg("client stopped")
	}()

	if err = a.ui.Run(ctx); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
