// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// statusBroadcaster fans status snapshots out to any number of observers.
// Each observer has a one-slot buffer; a pending snapshot nobody read yet is
// replaced by the newer one, so publish never blocks.
type statusBroadcaster struct {
	mu      sync.Mutex
	current models.SyncStatus
	nextID  int
	subs    map[int]chan models.SyncStatus
}

func newStatusBroadcaster() *statusBroadcaster {
	return &statusBroadcaster{
		current: models.SyncStatus{State: models.SyncStateIdle},
		subs:    make(map[int]chan models.SyncStatus),
	}
}

// subscribe registers an observer. The current snapshot is delivered right
// away. The returned function unregisters and closes the channel; calling
// it twice is safe.
func (b *statusBroadcaster) subscribe() (<-chan models.SyncStatus, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan models.SyncStatus, 1)
	ch <- b.current
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
}

func (b *statusBroadcaster) snapshot() models.SyncStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// update applies fn to the current snapshot and publishes the result.
func (b *statusBroadcaster) update(fn func(*models.SyncStatus)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn(&b.current)
	for _, ch := range b.subs {
		select {
		case ch <- b.current:
			continue
		default:
		}
		// drop the stale snapshot and retry once; we hold mu, so no other
		// sender can refill the slot in between
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- b.current:
		default:
		}
	}
}
