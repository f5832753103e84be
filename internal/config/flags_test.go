// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "localhost", input: "localhost:8080", want: "localhost:8080"},
		{name: "ipv4", input: "127.0.0.1:9090", want: "127.0.0.1:9090"},
		{name: "all interfaces", input: ":8080", want: ":8080"},
		{name: "no port", input: "localhost", wantErr: true},
		{name: "port not a number", input: "localhost:http", wantErr: true},
		{name: "port zero", input: "localhost:0", wantErr: true},
		{name: "port too big", input: "localhost:70000", wantErr: true},
		{name: "hostname", input: "example.com:80", wantErr: true},
		{name: "too many colons", input: "1:2:3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestNetAddress_StringEmpty(t *testing.T) {
	assert.Equal(t, "", (&NetAddress{}).String())
}

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-a", "localhost:8080",
		"-grpc-address", "127.0.0.1:9090",
		"-d", "postgres://db",
		"-config", "cfg.json",
		"-token-sign-key", "sign",
		"-token-issuer", "iss",
		"-token-duration", "45m",
		"-request-timeout", "20s",
		"-hash-key", "hk",
		"-secret-hash-key", "shk",
		"-remote", "http://cloud",
		"-batch-limit", "300",
		"-sync-interval", "30s",
		"-key-file", "my.key",
		"-log-file", "my.log",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.GRPCAddress)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "postgres://db", cfg.Storage.DB.DSN)
	assert.Equal(t, "cfg.json", cfg.JSONFilePath)
	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "iss", cfg.App.TokenIssuer)
	assert.Equal(t, 45*time.Minute, cfg.App.TokenDuration)
	assert.Equal(t, "hk", cfg.App.HashKey)
	assert.Equal(t, "shk", cfg.App.SecretHashKey)
	assert.Equal(t, "http://cloud", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 300, cfg.Adapter.BatchLimit)
	assert.Equal(t, 30*time.Second, cfg.Workers.SyncInterval)
	assert.Equal(t, "my.key", cfg.Sync.KeyFile)
	assert.Equal(t, "my.log", cfg.Log.File)
}

func TestParseFlags_Empty(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_Invalid(t *testing.T) {
	for _, args := range [][]string{
		{"-a", "not-an-address"},
		{"-token-duration", "soon"},
		{"-unknown-flag"},
	} {
		_, err := parseFlags(args)
		assert.Error(t, err, args)
	}
}
