// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// tokenSkew is how long before expiry a persisted token stops being reused.
const tokenSkew = time.Minute

const maxHostnameLength = 32

type clientIdentityService struct {
	metadata store.MetadataRepository
	remote   adapter.RemoteStore
	logger   *logger.Logger

	now      func() time.Time
	hostname func() (string, error)

	// mu serializes Authenticate so two callers never register two users.
	mu sync.Mutex
}

// NewClientIdentityService returns a [ClientIdentityService] persisting the
// identity through metadata.
func NewClientIdentityService(metadata store.MetadataRepository, remote adapter.RemoteStore, logger *logger.Logger) ClientIdentityService {
	return &clientIdentityService{
		metadata: metadata,
		remote:   remote,
		logger:   logger,
		now:      time.Now,
		hostname: os.Hostname,
	}
}

func (s *clientIdentityService) Authenticate(ctx context.Context) (models.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.logger.With().Str("func", "clientIdentityService.Authenticate").Logger()

	identity, err := s.metadata.GetIdentity(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return s.signIn(ctx)
	case err != nil:
		return models.Identity{}, fmt.Errorf("%w: load identity: %w", ErrAuthentication, err)
	}

	if !identity.Expired(s.now(), tokenSkew) {
		s.remote.SetToken(identity.Token)
		return identity, nil
	}

	refreshed, err := s.remote.RefreshToken(ctx, identity.UserID, identity.RefreshSecret)
	if err == nil {
		log.Debug().Str("user_id", refreshed.UserID).Msg("token refreshed")
		return s.persist(ctx, refreshed)
	}
	if !errors.Is(err, adapter.ErrUnauthorized) {
		return models.Identity{}, fmt.Errorf("%w: refresh token: %w", ErrAuthentication, err)
	}

	log.Warn().Err(err).Str("user_id", identity.UserID).Msg("refresh secret rejected, signing in anew")
	return s.signIn(ctx)
}

func (s *clientIdentityService) signIn(ctx context.Context) (models.Identity, error) {
	identity, err := s.remote.SignInAnonymously(ctx)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: anonymous sign-in: %w", ErrAuthentication, err)
	}

	s.logger.Info().
		Str("func", "clientIdentityService.signIn").
		Str("user_id", identity.UserID).
		Msg("signed in anonymously")

	return s.persist(ctx, identity)
}

func (s *clientIdentityService) persist(ctx context.Context, identity models.Identity) (models.Identity, error) {
	if err := s.metadata.SaveIdentity(ctx, identity); err != nil {
		return models.Identity{}, fmt.Errorf("%w: save identity: %w", ErrAuthentication, err)
	}
	s.remote.SetToken(identity.Token)
	return identity, nil
}

func (s *clientIdentityService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.metadata.DeleteIdentity(ctx); err != nil {
		return fmt.Errorf("delete identity: %w", err)
	}
	if err := s.metadata.DeleteSyncMetadata(ctx); err != nil {
		return fmt.Errorf("delete sync metadata: %w", err)
	}
	s.remote.SetToken("")

	s.logger.Info().Str("func", "clientIdentityService.SignOut").Msg("signed out")
	return nil
}

func (s *clientIdentityService) IsAuthenticated() bool {
	return s.remote.Token() != ""
}

func (s *clientIdentityService) GetOrCreateDeviceID(ctx context.Context) (string, error) {
	deviceID, err := s.metadata.GetDeviceID(ctx)
	if err == nil {
		return deviceID, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("load device id: %w", err)
	}

	host, err := s.hostname()
	if err != nil {
		host = ""
	}
	deviceID = newDeviceID(host, s.now())

	if err = s.metadata.SaveDeviceID(ctx, deviceID); err != nil {
		return "", fmt.Errorf("save device id: %w", err)
	}

	s.logger.Info().
		Str("func", "clientIdentityService.GetOrCreateDeviceID").
		Str("device_id", deviceID).
		Msg("device id created")

	return deviceID, nil
}

// newDeviceID builds "<hostname>-<8 hex>-<unix seconds>".
func newDeviceID(hostname string, now time.Time) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%d", sanitizeHostname(hostname), random, now.Unix())
}

// sanitizeHostname lowercases the name and keeps [a-z0-9-] only.
func sanitizeHostname(hostname string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(hostname) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
		if b.Len() >= maxHostnameLength {
			break
		}
	}

	name := strings.Trim(b.String(), "-")
	if name == "" {
		return "device"
	}
	return name
}
