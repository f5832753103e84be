// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/client"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/tui"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const role = "ledger-sync-client"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetClientConfig()
	if err != nil {
		// the log file location is part of the config
		logger.NewLogger(role).Fatal().Err(err).Msg("error getting configs")
	}
	if buildVersion != "N/A" && cfg.App.Version == config.DefaultClientConfig().App.Version {
		cfg.App.Version = buildVersion
	}

	log := logger.NewClientLogger(role, logger.FileOptions{
		Path:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
	})
	log.Debug().
		Str("server", cfg.Adapter.HTTPAddress).
		Str("db", cfg.Storage.DB.DSN).
		Dur("sync_interval", cfg.Workers.SyncInterval).
		Msg("received configs")

	ctx := context.Background()

	remote, err := adapter.NewHTTPRemoteStore(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store")
	}

	storages, err := store.NewClientStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}
	defer storages.Close()

	services := service.NewClientServices(storages, remote, crypto.NewFileKeyStore(cfg.Sync.KeyFile), cfg, log)

	ui, err := tui.New(services, models.NewAppBuildInfo(buildVersion, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating ui")
	}

	app, err := client.NewApp(services, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
