// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestChangeBroker_LaggingSubscriberDoesNotBlock(t *testing.T) {
	b := NewChangeBroker(logger.Nop())
	ch, cancel := b.Subscribe("u-1", models.CollectionTransactions)
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(models.DocumentChange{UserID: "u-1", Collection: models.CollectionTransactions, Type: models.ChangeUpsert})
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestChangeBroker_CancelTwice(t *testing.T) {
	b := NewChangeBroker(logger.Nop())
	_, cancel := b.Subscribe("u-1", models.CollectionMeta)
	assert.Equal(t, 1, b.Subscribers("u-1", models.CollectionMeta))

	cancel()
	assert.NotPanics(t, cancel)
	assert.Zero(t, b.Subscribers("u-1", models.CollectionMeta))

	// publishing to nobody is fine
	b.Publish(models.DocumentChange{UserID: "u-1", Collection: models.CollectionMeta})
}
