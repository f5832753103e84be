// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// pairingPrefix versions the pairing code format.
const pairingPrefix = "lsp1."

// ErrInvalidPairingCode is returned for a code that does not parse.
var ErrInvalidPairingCode = errors.New("invalid pairing code")

type pairingCode struct {
	UserID        string `json:"u"`
	RefreshSecret string `json:"s"`
	Key           string `json:"k"`
}

type clientKeyService struct {
	keys     crypto.KeyStore
	metadata store.MetadataRepository
	remote   adapter.RemoteStore
	logger   *logger.Logger
}

// NewClientKeyService returns a [ClientKeyService].
func NewClientKeyService(keys crypto.KeyStore, metadata store.MetadataRepository, remote adapter.RemoteStore, logger *logger.Logger) ClientKeyService {
	return &clientKeyService{keys: keys, metadata: metadata, remote: remote, logger: logger}
}

func (s *clientKeyService) ExportRecoveryKey(ctx context.Context) (string, error) {
	identity, err := s.metadata.GetIdentity(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("load identity: %w", err)
	}

	key, err := s.keys.ExportKey(ctx)
	if err != nil {
		return "", fmt.Errorf("export key: %w", err)
	}

	raw, err := json.Marshal(pairingCode{UserID: identity.UserID, RefreshSecret: identity.RefreshSecret, Key: key})
	if err != nil {
		return "", fmt.Errorf("encode pairing code: %w", err)
	}
	return pairingPrefix + base64.RawURLEncoding.EncodeToString(raw), nil
}

func (s *clientKeyService) ImportRecoveryKey(ctx context.Context, code string) error {
	pairing, err := parsePairingCode(code)
	if err != nil {
		return err
	}

	if err = s.keys.ImportKey(ctx, pairing.Key); err != nil {
		return fmt.Errorf("%w: import key: %w", ErrEncryption, err)
	}
	// no token: the next Authenticate refreshes it with the adopted secret
	err = s.metadata.SaveIdentity(ctx, models.Identity{UserID: pairing.UserID, RefreshSecret: pairing.RefreshSecret})
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	if err = s.metadata.DeleteSyncMetadata(ctx); err != nil {
		return fmt.Errorf("reset sync metadata: %w", err)
	}
	s.remote.SetToken("")

	fingerprint, err := s.keys.Fingerprint(ctx)
	if err != nil {
		return fmt.Errorf("key fingerprint: %w", err)
	}
	s.logger.Info().
		Str("func", "clientKeyService.ImportRecoveryKey").
		Str("user_id", pairing.UserID).
		Str("fingerprint", fingerprint).
		Msg("device paired")
	return nil
}

func (s *clientKeyService) Fingerprint(ctx context.Context) (string, error) {
	return s.keys.Fingerprint(ctx)
}

func parsePairingCode(code string) (pairingCode, error) {
	code = strings.TrimSpace(code)
	encoded, ok := strings.CutPrefix(code, pairingPrefix)
	if !ok {
		return pairingCode{}, fmt.Errorf("%w: unknown format", ErrInvalidPairingCode)
	}
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return pairingCode{}, fmt.Errorf("%w: %w", ErrInvalidPairingCode, err)
	}

	var p pairingCode
	if err = json.Unmarshal(raw, &p); err != nil {
		return pairingCode{}, fmt.Errorf("%w: %w", ErrInvalidPairingCode, err)
	}
	if p.UserID == "" || p.RefreshSecret == "" || p.Key == "" {
		return pairingCode{}, fmt.Errorf("%w: missing field", ErrInvalidPairingCode)
	}
	return p, nil
}
