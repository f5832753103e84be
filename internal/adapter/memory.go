// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// MemoryOp names an operation of the in-memory store for fault injection.
type MemoryOp string

const (
	MemoryOpWrite  MemoryOp = "write"
	MemoryOpBatch  MemoryOp = "batch"
	MemoryOpRead   MemoryOp = "read"
	MemoryOpList   MemoryOp = "list"
	MemoryOpDelete MemoryOp = "delete"
)

// FaultFunc is consulted before every data operation. A non-nil return is
// reported as the operation's error and nothing is changed.
type FaultFunc func(op MemoryOp, path string) error

// MemoryBackend is the shared state behind one or more in-memory stores,
// standing in for the server. Several stores over one backend behave like
// several devices talking to the same cloud.
type MemoryBackend struct {
	mu sync.Mutex

	now      func() time.Time
	lastTime time.Time

	secrets map[string]string // user id -> refresh secret
	tokens  map[string]string // token -> user id
	docs    map[string]map[string]models.Document
	subs    map[string]map[chan models.DocumentChange]struct{}

	fault    FaultFunc
	tokenTTL time.Duration
}

// NewMemoryBackend returns an empty backend using the wall clock.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		now:      time.Now,
		secrets:  make(map[string]string),
		tokens:   make(map[string]string),
		docs:     make(map[string]map[string]models.Document),
		subs:     make(map[string]map[chan models.DocumentChange]struct{}),
		tokenTTL: time.Hour,
	}
}

// SetFault installs f, or removes the current one when f is nil.
func (b *MemoryBackend) SetFault(f FaultFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fault = f
}

// SetClock replaces the server clock. Timestamps stay strictly increasing
// even when now goes backwards.
func (b *MemoryBackend) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

// RevokeTokens invalidates every issued token.
func (b *MemoryBackend) RevokeTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.tokens)
}

// Document returns a copy of the stored document, if any.
func (b *MemoryBackend) Document(path string) (models.Document, bool) {
	p, err := parsePath(path, true)
	if err != nil {
		return models.Document{}, false
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	doc, ok := b.docs[p.collectionKey()][p.DocID]
	return doc, ok
}

// Count returns the number of documents in the collection.
func (b *MemoryBackend) Count(collectionPath string) int {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.docs[p.collectionKey()])
}

// stamp returns the next server timestamp. Must be called with mu held.
func (b *MemoryBackend) stamp() time.Time {
	t := b.now().UTC()
	if !t.After(b.lastTime) {
		t = b.lastTime.Add(time.Microsecond)
	}
	b.lastTime = t
	return t
}

func (b *MemoryBackend) issueToken(userID string) (string, time.Time) {
	token := "mem." + uuid.NewString()
	b.tokens[token] = userID
	return token, b.now().Add(b.tokenTTL)
}

// authorize checks token against the owner of p and runs the fault hook.
// Must be called with mu held.
func (b *MemoryBackend) authorize(token string, p remotePath, op MemoryOp, path string) error {
	userID, ok := b.tokens[token]
	if !ok {
		return fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}
	if userID != p.UserID {
		return fmt.Errorf("%w: path belongs to another user", ErrForbidden)
	}
	if b.fault != nil {
		return b.fault(op, path)
	}
	return nil
}

func (b *MemoryBackend) put(p remotePath, doc models.Document, opts WriteOptions) (models.Document, error) {
	key := p.collectionKey()
	collection, ok := b.docs[key]
	if !ok {
		collection = make(map[string]models.Document)
		b.docs[key] = collection
	}

	existing, exists := collection[p.DocID]
	if opts.ExpectedRevision != nil {
		expected := *opts.ExpectedRevision
		if (expected == 0 && exists) || (expected > 0 && (!exists || existing.Revision != expected)) {
			return models.Document{}, fmt.Errorf("%w: %s expected revision %d", ErrRevisionConflict, p.DocID, expected)
		}
	}

	stored := doc
	stored.ID = p.DocID
	if stored.Version == 0 {
		stored.Version = models.DocumentVersion
	}

	now := b.stamp()
	stored.UpdatedAt = now
	if exists {
		stored.CreatedAt = existing.CreatedAt
		stored.Revision = existing.Revision + 1
		if opts.Merge {
			merged, err := mergeDocuments(existing, stored)
			if err != nil {
				return models.Document{}, err
			}
			stored = merged
		}
	} else {
		stored.CreatedAt = now
		stored.Revision = 1
	}

	collection[p.DocID] = stored
	b.publish(key, models.DocumentChange{Type: models.ChangeUpsert, UserID: p.UserID, Collection: p.Collection, Document: stored})
	return stored, nil
}

// mergeDocuments keeps stored values for fields incoming leaves empty and
// shallow-merges JSON object bodies.
func mergeDocuments(existing, incoming models.Document) (models.Document, error) {
	if incoming.EncryptedData == "" {
		incoming.EncryptedData = existing.EncryptedData
	}
	if incoming.DeviceID == "" {
		incoming.DeviceID = existing.DeviceID
	}

	switch {
	case len(incoming.Data) == 0:
		incoming.Data = existing.Data
	case len(existing.Data) > 0:
		var base, patch map[string]json.RawMessage
		if err := json.Unmarshal(existing.Data, &base); err != nil {
			base = make(map[string]json.RawMessage)
		}
		if err := json.Unmarshal(incoming.Data, &patch); err != nil {
			return models.Document{}, fmt.Errorf("%w: merge body is not an object", ErrBadRequest)
		}
		if base == nil {
			base = make(map[string]json.RawMessage)
		}
		maps.Copy(base, patch)
		data, err := json.Marshal(base)
		if err != nil {
			return models.Document{}, err
		}
		incoming.Data = data
	}

	return incoming, nil
}

func (b *MemoryBackend) publish(key string, change models.DocumentChange) {
	for ch := range b.subs[key] {
		select {
		case ch <- change:
		default:
		}
	}
}

type memoryRemoteStore struct {
	backend    *MemoryBackend
	batchLimit int

	mu    sync.RWMutex
	token string
}

// NewMemoryRemoteStore returns a [RemoteStore] over backend. batchLimit is
// clamped to [1, models.MaxBatchSize].
func NewMemoryRemoteStore(backend *MemoryBackend, batchLimit int) RemoteStore {
	if batchLimit <= 0 || batchLimit > models.MaxBatchSize {
		batchLimit = models.MaxBatchSize
	}
	return &memoryRemoteStore{backend: backend, batchLimit: batchLimit}
}

func (m *memoryRemoteStore) SetToken(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = strings.TrimSpace(token)
}

func (m *memoryRemoteStore) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *memoryRemoteStore) SignInAnonymously(ctx context.Context) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}

	b := m.backend
	b.mu.Lock()
	userID := uuid.NewString()
	secret := uuid.NewString()
	b.secrets[userID] = secret
	token, expiresAt := b.issueToken(userID)
	b.mu.Unlock()

	m.SetToken(token)
	return models.Identity{UserID: userID, RefreshSecret: secret, Token: token, ExpiresAt: expiresAt}, nil
}

func (m *memoryRemoteStore) RefreshToken(ctx context.Context, userID, refreshSecret string) (models.Identity, error) {
	if err := ctx.Err(); err != nil {
		return models.Identity{}, err
	}

	b := m.backend
	b.mu.Lock()
	secret, ok := b.secrets[userID]
	if !ok || secret != refreshSecret {
		b.mu.Unlock()
		return models.Identity{}, fmt.Errorf("%w: unknown identity", ErrUnauthorized)
	}
	token, expiresAt := b.issueToken(userID)
	b.mu.Unlock()

	m.SetToken(token)
	return models.Identity{UserID: userID, RefreshSecret: refreshSecret, Token: token, ExpiresAt: expiresAt}, nil
}

func (m *memoryRemoteStore) WriteDocument(ctx context.Context, path string, doc models.Document, opts WriteOptions) (models.Document, error) {
	if err := ctx.Err(); err != nil {
		return models.Document{}, err
	}
	p, err := parsePath(path, true)
	if err != nil {
		return models.Document{}, err
	}

	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err = b.authorize(m.Token(), p, MemoryOpWrite, path); err != nil {
		return models.Document{}, err
	}
	return b.put(p, doc, opts)
}

func (m *memoryRemoteStore) WriteBatch(ctx context.Context, collectionPath string, docs []models.Document, merge bool, onChunk ChunkFunc) ([]models.Document, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	stored := make([]models.Document, 0, len(docs))
	for chunk, start := 0, 0; start < len(docs); chunk, start = chunk+1, start+m.batchLimit {
		if err = ctx.Err(); err != nil {
			return stored, &BatchError{Chunk: chunk, Written: len(stored), Err: err}
		}

		end := min(start+m.batchLimit, len(docs))
		written, err := m.writeChunk(p, collectionPath, docs[start:end], merge)
		if err != nil {
			return stored, &BatchError{Chunk: chunk, Written: len(stored), Err: err}
		}
		stored = append(stored, written...)

		if onChunk != nil {
			onChunk(len(stored), len(docs))
		}
	}

	return stored, nil
}

// writeChunk applies one chunk atomically.
func (m *memoryRemoteStore) writeChunk(p remotePath, collectionPath string, docs []models.Document, merge bool) ([]models.Document, error) {
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.authorize(m.Token(), p, MemoryOpBatch, collectionPath); err != nil {
		return nil, err
	}

	key := p.collectionKey()
	snapshot := maps.Clone(b.docs[key])

	written := make([]models.Document, 0, len(docs))
	for _, doc := range docs {
		dp := p
		dp.DocID = doc.ID
		if doc.ID == "" {
			b.docs[key] = snapshot
			return nil, fmt.Errorf("%w: document without id", ErrBadRequest)
		}
		saved, err := b.put(dp, doc, WriteOptions{Merge: merge})
		if err != nil {
			b.docs[key] = snapshot
			return nil, err
		}
		written = append(written, saved)
	}
	return written, nil
}

func (m *memoryRemoteStore) ReadDocument(ctx context.Context, path string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parsePath(path, true)
	if err != nil {
		return nil, err
	}

	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err = b.authorize(m.Token(), p, MemoryOpRead, path); err != nil {
		return nil, err
	}
	doc, ok := b.docs[p.collectionKey()][p.DocID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (m *memoryRemoteStore) ReadCollection(ctx context.Context, collectionPath string) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err = b.authorize(m.Token(), p, MemoryOpList, collectionPath); err != nil {
		return nil, err
	}

	collection := b.docs[p.collectionKey()]
	docs := make([]models.Document, 0, len(collection))
	for _, id := range slices.Sorted(maps.Keys(collection)) {
		docs = append(docs, collection[id])
	}
	return docs, nil
}

func (m *memoryRemoteStore) DeleteDocument(ctx context.Context, path string) error {
	p, err := parsePath(path, true)
	if err != nil {
		return err
	}
	_, err = m.deleteIDs(ctx, p, path, []string{p.DocID})
	return err
}

func (m *memoryRemoteStore) DeleteDocuments(ctx context.Context, collectionPath string, ids []string) (int, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(ids); start += m.batchLimit {
		end := min(start+m.batchLimit, len(ids))
		n, err := m.deleteIDs(ctx, p, collectionPath, ids[start:end])
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}

func (m *memoryRemoteStore) deleteIDs(ctx context.Context, p remotePath, path string, ids []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.authorize(m.Token(), p, MemoryOpDelete, path); err != nil {
		return 0, err
	}

	key := p.collectionKey()
	deleted := 0
	for _, id := range ids {
		doc, ok := b.docs[key][id]
		if !ok {
			continue
		}
		delete(b.docs[key], id)
		deleted++
		b.publish(key, models.DocumentChange{Type: models.ChangeDelete, UserID: p.UserID, Collection: p.Collection, Document: doc})
	}
	return deleted, nil
}

func (m *memoryRemoteStore) Subscribe(ctx context.Context, collectionPath string) (<-chan models.DocumentChange, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	b := m.backend
	b.mu.Lock()
	if err = b.authorize(m.Token(), p, MemoryOpRead, collectionPath); err != nil {
		b.mu.Unlock()
		return nil, err
	}

	key := p.collectionKey()
	ch := make(chan models.DocumentChange, 16)
	if b.subs[key] == nil {
		b.subs[key] = make(map[chan models.DocumentChange]struct{})
	}
	b.subs[key][ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs[key], ch)
		close(ch)
		b.mu.Unlock()
	}()

	return ch, nil
}
