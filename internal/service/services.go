// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
)

type Services struct {
	AuthService     AuthService
	DocumentService DocumentService
	AppInfoService  AppInfoService
	HealthService   HealthService
	Broker          *ChangeBroker
}

func NewServices(repositories *store.Repositories, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	broker := NewChangeBroker(logger)
	documents := NewDocumentValidationService().Wrap(
		NewDocumentService(repositories.DocumentRepository, broker, logger),
	)

	return &Services{
		AuthService:     NewAuthService(repositories.UserRepository, cfg.App, logger),
		DocumentService: documents,
		AppInfoService:  appInfo,
		HealthService:   NewHealthService(repositories, logger),
		Broker:          broker,
	}, nil
}
