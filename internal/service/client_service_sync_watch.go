// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func (s *clientSyncService) WatchRemote(ctx context.Context) (<-chan models.RemoteSyncMetadata, error) {
	identity, err := s.identity.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	deviceID, err := s.identity.GetOrCreateDeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("device id: %w", err)
	}

	changes, err := s.remote.Subscribe(ctx, adapter.CollectionPath(identity.UserID, models.CollectionMeta))
	if err != nil {
		return nil, fmt.Errorf("subscribe to remote sync metadata: %w", err)
	}

	log := s.logger.With().Str("func", "clientSyncService.WatchRemote").Logger()
	log.Debug().Str("user_id", identity.UserID).Msg("watching remote backups")

	out := make(chan models.RemoteSyncMetadata, 1)
	go func() {
		defer close(out)
		for change := range changes {
			if change.Type != models.ChangeUpsert || change.Document.ID != models.SyncMetaDocumentID {
				continue
			}
			meta, err := decodeRemoteMeta(change.Document)
			if err != nil {
				log.Warn().Err(err).Msg("skipping unreadable remote sync metadata")
				continue
			}
			// a claim is not a backup yet, and our own backups are known
			if meta.State != models.RemoteStateComplete || meta.DeviceID == deviceID {
				continue
			}

			// sole sender: after the drain the send cannot block
			select {
			case <-out:
			default:
			}
			out <- meta
		}
		log.Debug().Msg("remote backup watch ended")
	}()

	return out, nil
}
