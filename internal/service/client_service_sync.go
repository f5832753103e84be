// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// SyncDeps are the collaborators of [NewClientSyncService].
type SyncDeps struct {
	Identity ClientIdentityService
	Queue    ClientRetryQueue
	Ledger   store.LedgerRepository
	Metadata store.MetadataRepository
	Remote   adapter.RemoteStore
	Keys     crypto.KeyStore
	Envelope crypto.Envelope
	Logger   *logger.Logger

	// Timeout bounds one whole round. Zero means no bound beyond ctx.
	Timeout time.Duration
}

type clientSyncService struct {
	identity ClientIdentityService
	queue    ClientRetryQueue
	ledger   store.LedgerRepository
	metadata store.MetadataRepository
	remote   adapter.RemoteStore
	keys     crypto.KeyStore
	envelope crypto.Envelope
	logger   *logger.Logger
	timeout  time.Duration

	now func() time.Time

	// inFlight is held for the whole round; TryLock rejects a second one.
	inFlight sync.Mutex
	status   *statusBroadcaster
}

// session is what a round knows once it is authenticated.
type session struct {
	userID   string
	deviceID string
}

// roundFunc runs the body of a round. It returns the direction it took (or
// would have taken) so a failure can be queued for retry.
type roundFunc func(ctx context.Context, sess session) (models.SyncResult, models.SyncOperationType, error)

// NewClientSyncService returns a [ClientSyncService].
func NewClientSyncService(deps SyncDeps) ClientSyncService {
	return &clientSyncService{
		identity: deps.Identity,
		queue:    deps.Queue,
		ledger:   deps.Ledger,
		metadata: deps.Metadata,
		remote:   deps.Remote,
		keys:     deps.Keys,
		envelope: deps.Envelope,
		logger:   deps.Logger,
		timeout:  deps.Timeout,
		now:      time.Now,
		status:   newStatusBroadcaster(),
	}
}

func (s *clientSyncService) Subscribe() (<-chan models.SyncStatus, func()) {
	return s.status.subscribe()
}

func (s *clientSyncService) Status() models.SyncStatus {
	return s.status.snapshot()
}

func (s *clientSyncService) PerformSync(ctx context.Context) (models.SyncResult, error) {
	return s.round(ctx, s.decideAndRun)
}

func (s *clientSyncService) Backup(ctx context.Context) (models.SyncResult, error) {
	return s.round(ctx, func(ctx context.Context, sess session) (models.SyncResult, models.SyncOperationType, error) {
		snap, err := s.snapshot(ctx)
		if err != nil {
			return models.SyncResult{}, models.SyncOperationBackup, err
		}
		meta, err := s.readRemoteMeta(ctx, sess.userID)
		if err != nil {
			return models.SyncResult{}, models.SyncOperationBackup, err
		}
		result, err := s.backup(ctx, sess, snap, meta)
		return result, models.SyncOperationBackup, err
	})
}

func (s *clientSyncService) Restore(ctx context.Context) (models.SyncResult, error) {
	return s.round(ctx, func(ctx context.Context, sess session) (models.SyncResult, models.SyncOperationType, error) {
		meta, err := s.readRemoteMeta(ctx, sess.userID)
		if err != nil {
			return models.SyncResult{}, models.SyncOperationRestore, err
		}
		result, err := s.restore(ctx, sess, meta)
		return result, models.SyncOperationRestore, err
	})
}

// round is the frame shared by every entry point: in-flight guard,
// authentication, failure reporting and status transitions.
func (s *clientSyncService) round(ctx context.Context, body roundFunc) (models.SyncResult, error) {
	if !s.inFlight.TryLock() {
		return models.SyncResult{}, ErrSyncInProgress
	}
	defer s.inFlight.Unlock()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := s.logger.With().Str("func", "clientSyncService.round").Logger()

	s.status.update(func(st *models.SyncStatus) {
		*st = models.SyncStatus{
			State:        models.SyncStateAuthenticating,
			LastState:    st.LastState,
			IsSyncing:    true,
			LastSyncTime: st.LastSyncTime,
		}
	})

	identity, err := s.identity.Authenticate(ctx)
	if err != nil {
		syncErr := newSyncError("", err)
		log.Err(err).Msg("authentication failed")
		s.publishError(syncErr)
		return models.SyncResult{Action: models.SyncActionFailed, Err: syncErr}, syncErr
	}

	deviceID, err := s.identity.GetOrCreateDeviceID(ctx)
	if err != nil {
		return s.fail(ctx, "", fmt.Errorf("device id: %w", err)), nil
	}

	sess := session{userID: identity.UserID, deviceID: deviceID}
	ctx = s.logger.With().Str("user_id", sess.userID).Logger().WithContext(ctx)

	result, op, err := body(ctx, sess)
	if err != nil {
		return s.fail(ctx, op, err), nil
	}

	switch result.Action {
	case models.SyncActionBackup, models.SyncActionRestore:
		if err = s.queue.RemoveByType(ctx, models.SyncOperationType(result.Action)); err != nil {
			log.Warn().Err(err).Msg("failed to settle retry queue")
		}
	case models.SyncActionNone:
		for _, t := range []models.SyncOperationType{models.SyncOperationBackup, models.SyncOperationRestore} {
			if err = s.queue.RemoveByType(ctx, t); err != nil {
				log.Warn().Err(err).Msg("failed to settle retry queue")
			}
		}
	}

	log.Info().
		Str("action", string(result.Action)).
		Int("written", result.Written).
		Int("read", result.Read).
		Int("skipped", result.Skipped).
		Msg("sync round finished")

	s.status.update(func(st *models.SyncStatus) {
		state := models.SyncStateSuccess
		if result.Action == models.SyncActionFirstSync {
			state = models.SyncStateNoAction
		}
		last := st.LastSyncTime
		if result.SyncedAt != nil {
			last = result.SyncedAt
		}
		*st = models.SyncStatus{State: state, Progress: 1, Done: st.Done, Total: st.Total, LastSyncTime: last}
	})
	s.settle()

	return result, nil
}

// fail reports err through every channel a sync failure goes to.
func (s *clientSyncService) fail(ctx context.Context, op models.SyncOperationType, err error) models.SyncResult {
	syncErr := newSyncError(op, err)

	s.logger.Err(err).
		Str("func", "clientSyncService.fail").
		Str("op", string(op)).
		Str("kind", syncErr.Kind.Error()).
		Msg("sync failed")

	if op != "" {
		// the round context may be what failed
		enqueueCtx := context.WithoutCancel(ctx)
		if qErr := s.queue.Enqueue(enqueueCtx, op, syncErr.Message); qErr != nil {
			s.logger.Err(qErr).Str("func", "clientSyncService.fail").Msg("failed to queue sync retry")
		}
	}

	s.publishError(syncErr)
	return models.SyncResult{Action: models.SyncActionFailed, Err: syncErr}
}

func (s *clientSyncService) publishError(syncErr *SyncError) {
	s.status.update(func(st *models.SyncStatus) {
		*st = models.SyncStatus{
			State:        models.SyncStateError,
			LastSyncTime: st.LastSyncTime,
			ErrorMessage: syncErr.Message,
		}
	})
	s.settle()
}

// settle publishes Idle after a terminal state, carrying that state over in
// LastState along with the last sync time and error message.
func (s *clientSyncService) settle() {
	s.status.update(func(st *models.SyncStatus) {
		*st = models.SyncStatus{
			State:        models.SyncStateIdle,
			LastState:    st.State,
			LastSyncTime: st.LastSyncTime,
			ErrorMessage: st.ErrorMessage,
		}
	})
}

// decideAndRun compares the local and the cloud timestamps and runs the
// matching direction.
func (s *clientSyncService) decideAndRun(ctx context.Context, sess session) (models.SyncResult, models.SyncOperationType, error) {
	local, err := s.metadata.GetSyncMetadata(ctx)
	if err != nil {
		return models.SyncResult{}, models.SyncOperationBackup, fmt.Errorf("load sync metadata: %w", err)
	}

	remote, err := s.readRemoteMeta(ctx, sess.userID)
	if err != nil {
		return models.SyncResult{}, fallbackDirection(local), err
	}

	var cloud *time.Time
	if remote != nil {
		cloud = remote.LastCloudSyncTime
	}
	action := decideAction(local.LastLocalSyncTime, cloud)
	if remote != nil && remote.State == models.RemoteStateUploading && remote.DeviceID == sess.deviceID {
		// our own upload was interrupted; its claim is not a newer backup
		action = models.SyncActionBackup
	}

	logger.FromContext(ctx).Debug().
		Str("func", "clientSyncService.decideAndRun").
		Str("action", string(action)).
		Any("local", local.LastLocalSyncTime).
		Any("cloud", cloud).
		Msg("sync direction decided")

	switch action {
	case models.SyncActionBackup:
		snap, err := s.snapshot(ctx)
		if err != nil {
			return models.SyncResult{}, models.SyncOperationBackup, err
		}
		result, err := s.backup(ctx, sess, snap, remote)
		return result, models.SyncOperationBackup, err
	case models.SyncActionRestore:
		result, err := s.restore(ctx, sess, remote)
		return result, models.SyncOperationRestore, err
	case models.SyncActionNone:
		s.status.update(func(st *models.SyncStatus) {
			st.State = models.SyncStateNoAction
		})
		return models.SyncResult{Action: models.SyncActionNone, SyncedAt: cloud}, "", nil
	}

	s.status.update(func(st *models.SyncStatus) {
		st.State = models.SyncStateNoAction
	})
	return models.SyncResult{Action: models.SyncActionFirstSync}, "", nil
}

// decideAction is whole-dataset last-write-wins on the two timestamps.
func decideAction(local, cloud *time.Time) models.SyncAction {
	switch {
	case local == nil && cloud == nil:
		return models.SyncActionFirstSync
	case local == nil:
		return models.SyncActionRestore
	case cloud == nil:
		return models.SyncActionBackup
	case cloud.After(*local):
		return models.SyncActionRestore
	case local.After(*cloud):
		return models.SyncActionBackup
	}
	return models.SyncActionNone
}

// fallbackDirection names the retry entry of a round that failed before it
// could read the remote side.
func fallbackDirection(local models.SyncMetadata) models.SyncOperationType {
	if local.LastLocalSyncTime != nil {
		return models.SyncOperationBackup
	}
	return models.SyncOperationRestore
}

// readRemoteMeta returns nil when nothing was ever backed up.
func (s *clientSyncService) readRemoteMeta(ctx context.Context, userID string) (*models.RemoteSyncMetadata, error) {
	doc, err := s.remote.ReadDocument(ctx, metaPath(userID))
	if err != nil {
		return nil, fmt.Errorf("read remote sync metadata: %w", err)
	}
	if doc == nil {
		return nil, nil
	}

	meta, err := decodeRemoteMeta(*doc)
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func decodeRemoteMeta(doc models.Document) (models.RemoteSyncMetadata, error) {
	var meta models.RemoteSyncMetadata
	if len(doc.Data) > 0 {
		if err := json.Unmarshal(doc.Data, &meta); err != nil {
			return models.RemoteSyncMetadata{}, fmt.Errorf("decode remote sync metadata: %w", err)
		}
	}
	meta.Revision = doc.Revision
	updatedAt := doc.UpdatedAt.UTC()
	meta.LastCloudSyncTime = &updatedAt
	return meta, nil
}

// commit records a finished round. A local edit that landed while the round
// was running keeps the local side newer than syncedAt.
func (s *clientSyncService) commit(ctx context.Context, deviceID string, before *time.Time, syncedAt time.Time) error {
	current, err := s.metadata.GetSyncMetadata(ctx)
	if err != nil {
		return fmt.Errorf("load sync metadata: %w", err)
	}

	cloud := syncedAt.UTC()
	local := cloud
	if !sameInstant(before, current.LastLocalSyncTime) {
		local = store.NextLocalSyncTime(&cloud, s.now())
	}

	err = s.metadata.SaveSyncMetadata(ctx, models.SyncMetadata{
		DeviceID:          deviceID,
		LastLocalSyncTime: &local,
		LastCloudSyncTime: &cloud,
	})
	if err != nil {
		return fmt.Errorf("save sync metadata: %w", err)
	}
	return nil
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func (s *clientSyncService) progress(done, total int) {
	s.status.update(func(st *models.SyncStatus) {
		st.Done = done
		st.Total = total
		if total > 0 {
			st.Progress = float64(done) / float64(total)
		}
	})
}

func metaPath(userID string) string {
	return adapter.DocumentPath(userID, models.CollectionMeta, models.SyncMetaDocumentID)
}
