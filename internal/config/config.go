// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// server and the client. It is populated by merging environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to nested env lookups (caarlos0/env).
//   - env       — environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters, integrity keys and the version string.
	App App `envPrefix:"APP_"`

	// Storage holds the database connection settings. The server reads a
	// PostgreSQL DSN, the client a SQLite file path.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listening addresses of the document store.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's view of the document store.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Sync holds sync engine settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds log file settings (client only).
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file merged
	// on top of env and flags.
	// Env: CONFIG, flags: -c / -config
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level security and versioning settings.
type App struct {
	// TokenSignKey signs and verifies JWT bearer tokens.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long a bearer token stays valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// HashKey is the HMAC key of the HashSHA256 body-integrity header.
	// Empty disables the check.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// SecretHashKey is the HMAC key used to store refresh secrets.
	// Env: APP_SECRET_HASH_KEY
	SecretHashKey string `env:"SECRET_HASH_KEY"`

	// Version is exposed via /api/version.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups persistence settings.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the database connection string.
type DB struct {
	// DSN is a PostgreSQL URL on the server and a SQLite file path on the
	// client.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings of the document store.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client-side settings of the remote store.
type Adapter struct {
	// HTTPAddress is the base URL of the document store
	// (e.g. "http://localhost:8080").
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every single remote call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// BatchLimit is the maximum number of documents per batch write.
	// Must not exceed 500.
	// Env: ADAPTER_BATCH_LIMIT
	BatchLimit int `env:"BATCH_LIMIT"`
}

// Workers holds background job settings.
type Workers struct {
	// SyncInterval is how often the client runs a sync round and drains
	// the retry queue.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Sync holds sync engine settings.
type Sync struct {
	// RetryQueueCap bounds the retry queue; the oldest entry is dropped
	// when it is full.
	// Env: SYNC_RETRY_QUEUE_CAP
	RetryQueueCap int `env:"RETRY_QUEUE_CAP"`

	// KeyFile is where the installation secret is stored.
	// Env: SYNC_KEY_FILE
	KeyFile string `env:"KEY_FILE"`

	// Timeout bounds one whole sync round.
	// Env: SYNC_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`
}

// Log holds client log file settings.
type Log struct {
	// Env: LOG_FILE
	File string `env:"FILE"`
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`
}

// GetStructuredConfig loads and merges the configuration from all sources
// in priority order (later sources override non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
