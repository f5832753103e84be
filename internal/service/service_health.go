// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is anything that can verify its connection, such as
// [store.Repositories].
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthService struct {
	pinger Pinger
	logger *logger.Logger
}

func NewHealthService(pinger Pinger, logger *logger.Logger) HealthService {
	return &healthService{pinger: pinger, logger: logger}
}

func (s *healthService) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		s.logger.Warn().Err(err).Str("func", "healthService.Check").Msg("store is not reachable")
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	return nil
}
