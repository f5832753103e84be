// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasher_MatchesHashString(t *testing.T) {
	h := NewHasher("key")
	assert.Equal(t, HashString("payload", "key"), h.HashHex([]byte("payload")))
	assert.NotEqual(t, HashString("payload", "other"), h.HashHex([]byte("payload")))
}

func TestHasher_Verify(t *testing.T) {
	h := NewHasher("key")
	digest := h.HashHex([]byte("body"))

	assert.True(t, h.Verify([]byte("body"), digest))
	assert.False(t, h.Verify([]byte("body!"), digest))
	assert.False(t, h.Verify([]byte("body"), "zz-not-hex"))
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher("key")
	want := HashString("same", "key")

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, h.HashHex([]byte("same")))
		}()
	}
	wg.Wait()
}
