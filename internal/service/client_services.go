// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
)

type ClientServices struct {
	IdentityService ClientIdentityService
	LedgerService   ClientLedgerService
	KeyService      ClientKeyService
	RetryQueue      ClientRetryQueue
	SyncService     ClientSyncService
	SyncJob         ClientSyncJob
}

func NewClientServices(storages *store.ClientStorages, remote adapter.RemoteStore, keys crypto.KeyStore, cfg *config.ClientConfig, logger *logger.Logger) *ClientServices {
	identitySvc := NewClientIdentityService(storages.MetadataRepository, remote, logger)
	queue := NewClientRetryQueue(storages.RetryQueueRepository, cfg.Sync.RetryQueueCap, logger)
	syncSvc := NewClientSyncService(SyncDeps{
		Identity: identitySvc,
		Queue:    queue,
		Ledger:   storages.LedgerRepository,
		Metadata: storages.MetadataRepository,
		Remote:   remote,
		Keys:     keys,
		Envelope: crypto.NewEnvelope(),
		Logger:   logger,
		Timeout:  cfg.Sync.Timeout,
	})

	return &ClientServices{
		IdentityService: identitySvc,
		LedgerService:   NewClientLedgerService(storages.LedgerRepository),
		KeyService:      NewClientKeyService(keys, storages.MetadataRepository, remote, logger),
		RetryQueue:      queue,
		SyncService:     syncSvc,
		SyncJob:         NewClientSyncJob(syncSvc, queue, cfg.Workers.SyncInterval, logger),
	}
}
