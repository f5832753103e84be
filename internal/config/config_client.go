// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// ClientConfig is the client's validated view of [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter Adapter
	Storage Storage
	Workers Workers
	Sync    Sync
	Log     Log
}

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey signs batch bodies with the HashSHA256 header. Optional.
	HashKey string
	Version string
}

// DefaultClientConfig holds the values used for every unset client field.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		App: ClientApp{Version: "dev"},
		Adapter: Adapter{
			HTTPAddress:    "http://localhost:8080",
			RequestTimeout: 30 * time.Second,
			BatchLimit:     models.MaxBatchSize,
		},
		Storage: Storage{DB: DB{DSN: "ledger.db"}},
		Workers: Workers{SyncInterval: 5 * time.Minute},
		Sync: Sync{
			RetryQueueCap: 50,
			KeyFile:       "ledger.key",
			Timeout:       2 * time.Minute,
		},
		Log: Log{MaxSizeMB: 10},
	}
}

// GetClientConfig loads the structured config and builds the client view.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}
	return NewClientConfig(cfg)
}

// NewClientConfig maps the client-relevant fields of cfg, fills unset
// fields from [DefaultClientConfig] and validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	clientCfg := &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
			Version: cfg.App.Version,
		},
		Adapter: cfg.Adapter,
		Storage: cfg.Storage,
		Workers: cfg.Workers,
		Sync:    cfg.Sync,
		Log:     cfg.Log,
	}

	if err := mergo.Merge(clientCfg, DefaultClientConfig()); err != nil {
		return nil, fmt.Errorf("error applying client defaults: %w", err)
	}

	return clientCfg, clientCfg.validate()
}
