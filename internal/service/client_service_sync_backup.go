// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/codec"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// localSnapshot is the validated local dataset a backup uploads.
type localSnapshot struct {
	dataset models.SyncableDataset
	// localTime is LastLocalSyncTime when the snapshot was taken.
	localTime *time.Time
}

// snapshot exports and validates the local dataset. It touches no remote
// state, so a malformed dataset fails before any upload.
func (s *clientSyncService) snapshot(ctx context.Context) (localSnapshot, error) {
	meta, err := s.metadata.GetSyncMetadata(ctx)
	if err != nil {
		return localSnapshot{}, fmt.Errorf("load sync metadata: %w", err)
	}

	raw, err := s.ledger.ExportAll(ctx)
	if err != nil {
		return localSnapshot{}, fmt.Errorf("export local dataset: %w", err)
	}
	dataset, err := codec.Deserialize(raw)
	if err != nil {
		return localSnapshot{}, err
	}
	if err = codec.Validate(dataset); err != nil {
		return localSnapshot{}, err
	}

	return localSnapshot{dataset: dataset, localTime: meta.LastLocalSyncTime}, nil
}

// backup replaces the remote dataset with snap.
//
// The meta document is claimed (state=uploading) and finalized
// (state=complete) with check-and-set writes, so a concurrent backup from
// another device fails with ErrRemoteChanged instead of interleaving, and a
// reader never mistakes a half-written dataset for a complete one.
func (s *clientSyncService) backup(ctx context.Context, sess session, snap localSnapshot, remote *models.RemoteSyncMetadata) (models.SyncResult, error) {
	log := logger.FromContext(ctx).With().Str("func", "clientSyncService.backup").Logger()
	dataset := snap.dataset

	s.status.update(func(st *models.SyncStatus) {
		st.State = models.SyncStateUploading
		st.IsUploading = true
	})

	key, err := s.keys.DataKey(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load data key: %w", err)
	}
	fingerprint, err := s.keys.Fingerprint(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("load key fingerprint: %w", err)
	}
	if remote != nil && remote.KeyFingerprint != "" && remote.KeyFingerprint != fingerprint {
		return models.SyncResult{}, fmt.Errorf("%w: remote %s, local %s", ErrKeyMismatch, remote.KeyFingerprint, fingerprint)
	}

	// seal everything before claiming the remote
	txDocs, err := s.sealTransactions(sess, dataset.Transactions, key)
	if err != nil {
		return models.SyncResult{}, err
	}

	var expected int64
	if remote != nil {
		expected = remote.Revision
	}
	claimed, err := s.writeMeta(ctx, sess, models.RemoteSyncMetadata{
		State:            models.RemoteStateUploading,
		DeviceID:         sess.deviceID,
		TransactionCount: len(dataset.Transactions),
		KeyFingerprint:   fingerprint,
		DatasetVersion:   dataset.Version,
	}, expected)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("claim remote backup: %w", err)
	}

	log.Debug().Int64("revision", claimed.Revision).Int("transactions", len(txDocs)).Msg("remote backup claimed")

	txCollection := adapter.CollectionPath(sess.userID, models.CollectionTransactions)
	if len(txDocs) > 0 {
		s.progress(0, len(txDocs))
		if _, err = s.remote.WriteBatch(ctx, txCollection, txDocs, false, s.progress); err != nil {
			return models.SyncResult{}, fmt.Errorf("upload transactions: %w", err)
		}
	}

	if err = s.writeSettings(ctx, sess, dataset.Settings, key); err != nil {
		return models.SyncResult{}, err
	}
	if err = s.writeGamification(ctx, sess, dataset.Gamification, key); err != nil {
		return models.SyncResult{}, err
	}

	removed, err := s.pruneTransactions(ctx, txCollection, dataset.Transactions)
	if err != nil {
		return models.SyncResult{}, err
	}

	final, err := s.writeMeta(ctx, sess, models.RemoteSyncMetadata{
		State:            models.RemoteStateComplete,
		DeviceID:         sess.deviceID,
		TransactionCount: len(dataset.Transactions),
		KeyFingerprint:   fingerprint,
		DatasetVersion:   dataset.Version,
	}, claimed.Revision)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("finalize remote backup: %w", err)
	}

	syncedAt := final.UpdatedAt.UTC()
	if err = s.commit(ctx, sess.deviceID, snap.localTime, syncedAt); err != nil {
		return models.SyncResult{}, err
	}

	log.Info().
		Int("written", len(txDocs)).
		Int("removed", removed).
		Time("synced_at", syncedAt).
		Msg("backup complete")

	return models.SyncResult{
		Action:   models.SyncActionBackup,
		SyncedAt: &syncedAt,
		Written:  len(txDocs),
	}, nil
}

func (s *clientSyncService) sealTransactions(sess session, txs []models.Transaction, key []byte) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(txs))
	for _, tx := range txs {
		payload, err := codec.EncodeTransaction(tx)
		if err != nil {
			return nil, fmt.Errorf("encode transaction %s: %w", tx.ID, err)
		}
		doc, err := s.seal(sess, models.CollectionTransactions, tx.ID, payload, key)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// seal encrypts payload bound to its document path.
func (s *clientSyncService) seal(sess session, collection, docID string, payload, key []byte) (models.Document, error) {
	path := adapter.DocumentPath(sess.userID, collection, docID)
	sealed, err := s.envelope.Encrypt(payload, key, []byte(path))
	if err != nil {
		return models.Document{}, fmt.Errorf("encrypt %s: %w", path, err)
	}
	return models.Document{
		ID:            docID,
		EncryptedData: sealed,
		DeviceID:      sess.deviceID,
		Version:       models.DocumentVersion,
	}, nil
}

func (s *clientSyncService) writeSettings(ctx context.Context, sess session, settings models.Settings, key []byte) error {
	payload, err := codec.EncodeSettings(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	doc, err := s.seal(sess, models.CollectionSettings, models.SettingsDocumentID, payload, key)
	if err != nil {
		return err
	}

	path := adapter.DocumentPath(sess.userID, models.CollectionSettings, models.SettingsDocumentID)
	if _, err = s.remote.WriteDocument(ctx, path, doc, adapter.WriteOptions{}); err != nil {
		return fmt.Errorf("upload settings: %w", err)
	}
	return nil
}

// writeGamification uploads g, or removes the remote record when the local
// dataset has none.
func (s *clientSyncService) writeGamification(ctx context.Context, sess session, g *models.Gamification, key []byte) error {
	path := adapter.DocumentPath(sess.userID, models.CollectionGamification, models.GamificationDocumentID)
	if g == nil {
		if err := s.remote.DeleteDocument(ctx, path); err != nil {
			return fmt.Errorf("remove gamification: %w", err)
		}
		return nil
	}

	payload, err := codec.EncodeGamification(*g)
	if err != nil {
		return fmt.Errorf("encode gamification: %w", err)
	}
	doc, err := s.seal(sess, models.CollectionGamification, models.GamificationDocumentID, payload, key)
	if err != nil {
		return err
	}
	if _, err = s.remote.WriteDocument(ctx, path, doc, adapter.WriteOptions{}); err != nil {
		return fmt.Errorf("upload gamification: %w", err)
	}
	return nil
}

// pruneTransactions deletes remote transactions the local dataset no
// longer has.
func (s *clientSyncService) pruneTransactions(ctx context.Context, collectionPath string, local []models.Transaction) (int, error) {
	keep := make(map[string]struct{}, len(local))
	for _, tx := range local {
		keep[tx.ID] = struct{}{}
	}

	existing, err := s.remote.ReadCollection(ctx, collectionPath)
	if err != nil {
		return 0, fmt.Errorf("list remote transactions: %w", err)
	}

	var stale []string
	for _, doc := range existing {
		if _, ok := keep[doc.ID]; !ok {
			stale = append(stale, doc.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	removed, err := s.remote.DeleteDocuments(ctx, collectionPath, stale)
	if err != nil {
		return removed, fmt.Errorf("remove stale transactions: %w", err)
	}
	return removed, nil
}

// writeMeta writes the plaintext meta document with check-and-set on
// expected. A lost race maps to ErrRemoteChanged.
func (s *clientSyncService) writeMeta(ctx context.Context, sess session, meta models.RemoteSyncMetadata, expected int64) (models.Document, error) {
	body, err := json.Marshal(meta)
	if err != nil {
		return models.Document{}, fmt.Errorf("encode sync metadata: %w", err)
	}

	doc, err := s.remote.WriteDocument(ctx, metaPath(sess.userID), models.Document{
		ID:       models.SyncMetaDocumentID,
		Data:     body,
		DeviceID: sess.deviceID,
		Version:  models.DocumentVersion,
	}, adapter.WriteOptions{ExpectedRevision: &expected})
	if errors.Is(err, adapter.ErrRevisionConflict) {
		return models.Document{}, fmt.Errorf("%w: %w", ErrRemoteChanged, err)
	}
	if err != nil {
		return models.Document{}, err
	}
	return doc, nil
}
