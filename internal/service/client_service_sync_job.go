// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// DefaultSyncInterval is used when the configured interval is not positive.
const DefaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	syncService ClientSyncService
	queue       ClientRetryQueue
	interval    time.Duration
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that retries queued operations and runs
// PerformSync every interval. The job is idle until Run or Start is called.
func NewClientSyncJob(syncService ClientSyncService, queue ClientRetryQueue, interval time.Duration, logger *logger.Logger) ClientSyncJob {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &clientSyncJob{
		syncService: syncService,
		queue:       queue,
		interval:    interval,
		logger:      logger,
	}
}

func (j *clientSyncJob) Run() {
	j.Start(context.Background())
}

// Start implements ClientSyncJob. Operations left in the queue by a previous
// run are retried right away; after that a round runs on every tick.
func (j *clientSyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()

		if pending, err := j.queue.Pending(jobCtx); err == nil && len(pending) > 0 {
			j.tick(jobCtx)
		}

		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

// tick drains the queue and re-runs PerformSync. The direction is decided
// again from the timestamps rather than replayed from the queue. Drained
// entries go back when the round could not start, and when it ended in
// first_sync: that round moves no data, so only an explicit Backup or
// Restore settles the entry.
func (j *clientSyncJob) tick(ctx context.Context) {
	log := j.logger.With().Str("func", "clientSyncJob.tick").Logger()

	ops, err := j.queue.Drain(ctx)
	if err != nil {
		log.Err(err).Msg("failed to drain retry queue")
	}
	if len(ops) > 0 {
		log.Info().Int("pending", len(ops)).Msg("retrying queued sync operations")
	}

	result, err := j.syncService.PerformSync(ctx)
	if err != nil {
		if !errors.Is(err, ErrSyncInProgress) {
			log.Warn().Err(err).Msg("background sync did not start")
		}
		j.requeue(ctx, ops)
		return
	}

	if result.Action == models.SyncActionFirstSync && len(ops) > 0 {
		log.Info().Int("pending", len(ops)).Msg("first sync needs an explicit direction, keeping queued operations")
		j.requeue(ctx, ops)
		return
	}

	log.Debug().Str("action", string(result.Action)).Msg("background sync finished")
}

func (j *clientSyncJob) requeue(ctx context.Context, ops []models.SyncOperation) {
	ctx = context.WithoutCancel(ctx)
	for _, op := range ops {
		if err := j.queue.Enqueue(ctx, op.Type, op.ErrorMessage); err != nil {
			j.logger.Err(err).Str("func", "clientSyncJob.requeue").Msg("failed to requeue sync operation")
			return
		}
	}
}

// Stop implements ClientSyncJob.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
