// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"dario.cat/mergo"
)

// ServerConfig is the document store's validated view of
// [StructuredConfig].
type ServerConfig struct {
	App     App
	Storage Storage
	Server  Server
}

// DefaultServerConfig holds the values used for every unset server field.
// Secrets and the DSN have no defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		App: App{
			TokenIssuer:   "ledger-sync",
			TokenDuration: time.Hour,
			Version:       "dev",
		},
		Server: Server{
			HTTPAddress:    ":8080",
			GRPCAddress:    ":9090",
			RequestTimeout: 30 * time.Second,
		},
	}
}

// GetServerConfig loads the structured config and builds the server view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}
	return NewServerConfig(cfg)
}

// NewServerConfig maps the server-relevant fields of cfg, fills defaults
// and validates the result.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		Storage: cfg.Storage,
		Server:  cfg.Server,
	}

	if err := mergo.Merge(serverCfg, DefaultServerConfig()); err != nil {
		return nil, fmt.Errorf("error applying server defaults: %w", err)
	}

	return serverCfg, serverCfg.validate()
}
