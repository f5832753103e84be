// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"sync"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// subscriberBuffer is how many changes a subscriber may lag behind before
// changes are dropped for it.
const subscriberBuffer = 64

// ChangeBroker fans document changes out to in-process subscribers keyed by
// user and collection. Publish never blocks; a subscriber whose buffer is
// full misses the change.
type ChangeBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]chan models.DocumentChange
	logger *logger.Logger
}

func NewChangeBroker(logger *logger.Logger) *ChangeBroker {
	return &ChangeBroker{
		subs:   make(map[string]map[int]chan models.DocumentChange),
		logger: logger,
	}
}

func brokerKey(userID, collection string) string {
	return userID + "/" + collection
}

// Subscribe registers a subscriber. cancel unregisters it and closes the
// channel; it is safe to call more than once.
func (b *ChangeBroker) Subscribe(userID, collection string) (<-chan models.DocumentChange, func()) {
	key := brokerKey(userID, collection)
	ch := make(chan models.DocumentChange, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[key] == nil {
		b.subs[key] = make(map[int]chan models.DocumentChange)
	}
	b.subs[key][id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[key], id)
			if len(b.subs[key]) == 0 {
				delete(b.subs, key)
			}
			close(ch)
		})
	}
}

func (b *ChangeBroker) Publish(change models.DocumentChange) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[brokerKey(change.UserID, change.Collection)] {
		select {
		case ch <- change:
		default:
			b.logger.Warn().
				Str("func", "ChangeBroker.Publish").
				Str("user_id", change.UserID).
				Str("collection", change.Collection).
				Msg("subscriber is lagging, change dropped")
		}
	}
}

// Subscribers reports how many subscribers listen on one collection.
func (b *ChangeBroker) Subscribers(userID, collection string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[brokerKey(userID, collection)])
}
