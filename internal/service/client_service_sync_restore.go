// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// restore replaces the local dataset with the remote one. A document that
// fails to open or parse is skipped; everything else is imported in one
// local transaction.
func (s *clientSyncService) restore(ctx context.Context, sess session, remote *models.RemoteSyncMetadata) (models.SyncResult, error) {
	log := logger.FromContext(ctx).With().Str("func", "clientSyncService.restore").Logger()

	s.status.update(func(st *models.SyncStatus) {
		st.State = models.SyncStateDownloading
		st.IsRestoring = true
	})

	if remote == nil || remote.LastCloudSyncTime == nil {
		return models.SyncResult{}, ErrNoRemoteBackup
	}
	if remote.State == models.RemoteStateUploading {
		return models.SyncResult{}, fmt.Errorf("%w: claimed by %s", ErrRemoteIncomplete, remote.DeviceID)
	}

	before, err := s.metadata.GetSyncMetadata(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load sync metadata: %w", err)
	}

	key, err := s.keys.DataKey(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load data key: %w", err)
	}
	fingerprint, err := s.keys.Fingerprint(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load key fingerprint: %w", err)
	}
	if remote.KeyFingerprint != "" && remote.KeyFingerprint != fingerprint {
		return models.SyncResult{}, fmt.Errorf("%w: remote %s, local %s", ErrKeyMismatch, remote.KeyFingerprint, fingerprint)
	}

	docs, err := s.remote.ReadCollection(ctx, adapter.CollectionPath(sess.userID, models.CollectionTransactions))
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("download transactions: %w", err)
	}

	skipped := 0
	txs := make([]models.Transaction, 0, len(docs))
	for i, doc := range docs {
		tx, err := s.openTransaction(sess, doc, key)
		if err != nil {
			log.Warn().Err(err).Str("doc_id", doc.ID).Msg("skipping unreadable transaction")
			skipped++
		} else {
			txs = append(txs, tx)
		}
		s.progress(i+1, len(docs))
	}
	// the remote has no order; creation order is what the user entered
	slices.SortStableFunc(txs, func(a, b models.Transaction) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	settings, ok, err := s.readSettings(ctx, sess, key)
	if err != nil {
		return models.SyncResult{}, err
	}
	if !ok {
		skipped++
		log.Warn().Msg("remote settings unreadable, keeping local settings")
	}

	gamification, ok, err := s.readGamification(ctx, sess, key)
	if err != nil {
		return models.SyncResult{}, err
	}
	if !ok {
		skipped++
		log.Warn().Msg("remote gamification unreadable, keeping local progress")
	}

	raw, err := codec.Serialize(models.SyncableDataset{
		Version:      codec.CurrentVersion,
		ExportDate:   s.now().UTC(),
		Transactions: txs,
		Settings:     settings,
		Gamification: gamification,
	})
	if err != nil {
		return models.SyncResult{}, err
	}
	if err = s.ledger.ImportAll(ctx, raw); err != nil {
		return models.SyncResult{}, fmt.Errorf("import remote dataset: %w", err)
	}

	syncedAt := remote.LastCloudSyncTime.UTC()
	if err = s.commit(ctx, sess.deviceID, before.LastLocalSyncTime, syncedAt); err != nil {
		return models.SyncResult{}, err
	}

	log.Info().
		Int("read", len(txs)).
		Int("skipped", skipped).
		Time("synced_at", syncedAt).
		Msg("restore complete")

	return models.SyncResult{
		Action:   models.SyncActionRestore,
		SyncedAt: &syncedAt,
		Read:     len(txs),
		Skipped:  skipped,
	}, nil
}

func (s *clientSyncService) openTransaction(sess session, doc models.Document, key []byte) (models.Transaction, error) {
	payload, err := s.open(sess, models.CollectionTransactions, doc, key)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := codec.DecodeTransaction(payload)
	if err != nil {
		return models.Transaction{}, err
	}
	if tx.ID != doc.ID {
		return models.Transaction{}, fmt.Errorf("%w: id %q stored under %q", codec.ErrMalformedDocument, tx.ID, doc.ID)
	}
	return tx, nil
}

// open decrypts doc with its own path as associated data.
func (s *clientSyncService) open(sess session, collection string, doc models.Document, key []byte) ([]byte, error) {
	path := adapter.DocumentPath(sess.userID, collection, doc.ID)
	if doc.EncryptedData == "" {
		return nil, fmt.Errorf("%w: %s has no encrypted data", codec.ErrMalformedDocument, path)
	}
	payload, err := s.envelope.Decrypt(doc.EncryptedData, key, []byte(path))
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", path, err)
	}
	return payload, nil
}

// readSettings returns the remote settings, or the local ones when the
// remote record is missing (ok) or unreadable (not ok).
func (s *clientSyncService) readSettings(ctx context.Context, sess session, key []byte) (models.Settings, bool, error) {
	local, err := s.ledger.GetSettings(ctx)
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("load local settings: %w", err)
	}

	doc, err := s.remote.ReadDocument(ctx, adapter.DocumentPath(sess.userID, models.CollectionSettings, models.SettingsDocumentID))
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("download settings: %w", err)
	}
	if doc == nil {
		return local, true, nil
	}

	payload, err := s.open(sess, models.CollectionSettings, *doc, key)
	if err != nil {
		return local, false, nil
	}
	settings, err := codec.DecodeSettings(payload)
	if err != nil {
		return local, false, nil
	}
	return settings, true, nil
}

// readGamification mirrors readSettings. A missing remote record means the
// user has no progress.
func (s *clientSyncService) readGamification(ctx context.Context, sess session, key []byte) (*models.Gamification, bool, error) {
	doc, err := s.remote.ReadDocument(ctx, adapter.DocumentPath(sess.userID, models.CollectionGamification, models.GamificationDocumentID))
	if err != nil {
		return nil, false, fmt.Errorf("download gamification: %w", err)
	}
	if doc == nil {
		return nil, true, nil
	}

	fallback := func() (*models.Gamification, bool, error) {
		local, err := s.ledger.GetGamification(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("load local gamification: %w", err)
		}
		return local, false, nil
	}

	payload, err := s.open(sess, models.CollectionGamification, *doc, key)
	if err != nil {
		return fallback()
	}
	g, err := codec.DecodeGamification(payload)
	if err != nil {
		return fallback()
	}
	return &g, true, nil
}
