// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const testHashKey = "testhashkey"

func newTestAdapter(t *testing.T, serverURL string, batchLimit int) *httpRemoteStore {
	t.Helper()
	adapterCfg := config.Adapter{HTTPAddress: serverURL, RequestTimeout: 5 * time.Second, BatchLimit: batchLimit}
	appCfg := config.ClientApp{HashKey: testHashKey, Version: "test"}

	a, err := NewHTTPRemoteStore(adapterCfg, appCfg, logger.Nop())
	require.NoError(t, err)
	return a.(*httpRemoteStore)
}

func testToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("test", userID, time.Hour, "sign-key")
	require.NoError(t, err)
	return token.SignedString
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// ── construction ───────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8080", want: "http://localhost:8080"},
		{raw: " https://cloud.example.com/ ", want: "https://cloud.example.com"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewHTTPRemoteStore_ClampsBatchLimit(t *testing.T) {
	a := newTestAdapter(t, "http://localhost", 10_000)
	assert.Equal(t, models.MaxBatchSize, a.batchLimit)

	a = newTestAdapter(t, "http://localhost", 0)
	assert.Equal(t, models.MaxBatchSize, a.batchLimit)
}

// ── auth ───────────────────────────────────────────────────────────────────

func TestSignInAnonymously(t *testing.T) {
	token := testToken(t, "user-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/anonymous", r.URL.Path)

		w.Header().Set("Authorization", "Bearer "+token)
		writeJSON(t, w, http.StatusCreated, models.AnonymousAuthResponse{UserID: "user-1", RefreshSecret: "secret"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	identity, err := a.SignInAnonymously(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "secret", identity.RefreshSecret)
	assert.Equal(t, token, a.Token())
	assert.WithinDuration(t, time.Now().Add(time.Hour), identity.ExpiresAt, time.Minute)
}

func TestRefreshToken_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.TokenRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user-1", req.UserID)
		writeJSON(t, w, http.StatusUnauthorized, models.ErrorResponse{Error: "invalid refresh secret"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	_, err := a.RefreshToken(context.Background(), "user-1", "wrong")

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "invalid refresh secret")
	assert.Empty(t, a.Token())
}

// ── documents ──────────────────────────────────────────────────────────────

func TestWriteDocument_MergeAndIfMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/users/u1/meta/sync", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("merge"))
		assert.Equal(t, "7", r.Header.Get("If-Match"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var doc models.Document
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		doc.Revision = 8
		doc.UpdatedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		writeJSON(t, w, http.StatusOK, doc)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	a.SetToken("tok")

	rev := int64(7)
	stored, err := a.WriteDocument(context.Background(), DocumentPath("u1", "meta", "sync"),
		models.Document{Data: json.RawMessage(`{"state":"uploading"}`)}, WriteOptions{Merge: true, ExpectedRevision: &rev})

	require.NoError(t, err)
	assert.Equal(t, "sync", stored.ID)
	assert.Equal(t, int64(8), stored.Revision)
}

func TestWriteDocument_Conflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusConflict, models.ErrorResponse{Error: "revision conflict"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	_, err := a.WriteDocument(context.Background(), DocumentPath("u1", "meta", "sync"), models.Document{}, WriteOptions{})
	assert.ErrorIs(t, err, ErrRevisionConflict)
}

func TestWriteDocument_InvalidPath(t *testing.T) {
	a := newTestAdapter(t, "http://localhost", 0)
	_, err := a.WriteDocument(context.Background(), "users/u1/meta", models.Document{}, WriteOptions{})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestReadDocument_NotFoundIsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, models.ErrorResponse{Error: "document was not found"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	doc, err := a.ReadDocument(context.Background(), DocumentPath("u1", "meta", "sync"))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestReadCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u1/transactions", r.URL.Path)
		docs := []models.Document{{ID: "a"}, {ID: "b"}}
		writeJSON(t, w, http.StatusOK, models.CollectionResponse{Documents: docs, Length: len(docs)})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	docs, err := a.ReadCollection(context.Background(), CollectionPath("u1", "transactions"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := newTestAdapter(t, url, 0)
	_, err := a.ReadDocument(context.Background(), DocumentPath("u1", "meta", "sync"))
	assert.ErrorIs(t, err, ErrNetwork)
	assert.True(t, IsRetryable(err))
}

func TestServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	_, err := a.ReadCollection(context.Background(), CollectionPath("u1", "transactions"))
	assert.ErrorIs(t, err, ErrServerUnavailable)
}

// ── batches ────────────────────────────────────────────────────────────────

func batchServer(t *testing.T, failOnCall int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	hasher := utils.NewHasher(testHashKey)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		assert.Equal(t, "/api/users/u1/transactions/batch", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.True(t, hasher.Verify(body, r.Header.Get("HashSHA256")), "batch body hash mismatch")

		if n == failOnCall {
			writeJSON(t, w, http.StatusInternalServerError, models.ErrorResponse{Error: "boom"})
			return
		}

		var req models.BatchWriteRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, len(req.Documents), req.Length)
		assert.LessOrEqual(t, len(req.Documents), 2)

		writeJSON(t, w, http.StatusOK, models.BatchWriteResponse{Documents: req.Documents})
	}))
	return srv, &calls
}

func docs(n int) []models.Document {
	out := make([]models.Document, n)
	for i := range out {
		out[i] = models.Document{ID: string(rune('a' + i)), EncryptedData: "x"}
	}
	return out
}

func TestWriteBatch_ChunksAndReportsProgress(t *testing.T) {
	srv, calls := batchServer(t, 0)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 2)

	var progress [][2]int
	stored, err := a.WriteBatch(context.Background(), CollectionPath("u1", "transactions"), docs(5), false,
		func(done, total int) { progress = append(progress, [2]int{done, total}) })

	require.NoError(t, err)
	assert.Len(t, stored, 5)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, [][2]int{{2, 5}, {4, 5}, {5, 5}}, progress)
}

func TestWriteBatch_FailingChunkIsNeverSuccess(t *testing.T) {
	srv, calls := batchServer(t, 2)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 2)
	stored, err := a.WriteBatch(context.Background(), CollectionPath("u1", "transactions"), docs(5), false, nil)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Chunk)
	assert.Equal(t, 2, batchErr.Written)
	assert.ErrorIs(t, err, ErrServerUnavailable)
	assert.Len(t, stored, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestWriteBatch_StopsOnCancelledContext(t *testing.T) {
	srv, calls := batchServer(t, 0)
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 2)
	ctx, cancel := context.WithCancel(context.Background())

	_, err := a.WriteBatch(ctx, CollectionPath("u1", "transactions"), docs(5), false,
		func(done, total int) { cancel() })

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDeleteDocuments_Chunks(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/users/u1/transactions/delete", r.URL.Path)
		var req models.BatchDeleteRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		writeJSON(t, w, http.StatusOK, models.BatchDeleteResponse{Deleted: len(req.IDs)})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 2)
	n, err := a.DeleteDocuments(context.Background(), CollectionPath("u1", "transactions"), []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, int32(2), calls.Load())
}

// ── subscribe ──────────────────────────────────────────────────────────────

func TestSubscribe_StreamsChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/u1/meta/subscribe", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		conn, err := websocket.Accept(w, r, nil)
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "")

		data, _ := json.Marshal(models.DocumentChange{Type: models.ChangeUpsert, UserID: "u1", Collection: "meta", Document: models.Document{ID: "sync"}})
		_ = conn.Write(r.Context(), websocket.MessageText, data)
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL, 0)
	a.SetToken("tok")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	changes, err := a.Subscribe(ctx, CollectionPath("u1", "meta"))
	require.NoError(t, err)

	select {
	case change, ok := <-changes:
		require.True(t, ok)
		assert.Equal(t, "sync", change.Document.ID)
		assert.Equal(t, models.ChangeUpsert, change.Type)
	case <-ctx.Done():
		t.Fatal("no change received")
	}

	// the server closed the socket, so the channel must close
	for range changes {
	}
}
