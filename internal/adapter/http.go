// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const subscribeReadLimit = 4 << 20

type httpRemoteStore struct {
	client     *utils.HTTPClient
	baseURL    string
	batchLimit int
	hasher     *utils.Hasher

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRemoteStore constructs the HTTP/REST implementation of
// [RemoteStore]. It normalises the base URL from adapterCfg.HTTPAddress and
// clamps the batch limit to [1, models.MaxBatchSize]. When appCfg.HashKey is
// set, batch bodies carry a HashSHA256 integrity header.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed.
func NewHTTPRemoteStore(adapterCfg config.Adapter, appCfg config.ClientApp, logger *logger.Logger) (RemoteStore, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	limit := adapterCfg.BatchLimit
	if limit <= 0 || limit > models.MaxBatchSize {
		limit = models.MaxBatchSize
	}

	store := &httpRemoteStore{
		client:     utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		baseURL:    baseURL,
		batchLimit: limit,
		logger:     logger,
	}
	if appCfg.HashKey != "" {
		store.hasher = utils.NewHasher(appCfg.HashKey)
	}
	if appCfg.Version != "" {
		store.client.SetHeader("User-Agent", "ledger-sync/"+appCfg.Version)
	}

	return store, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [RemoteStore].
func (h *httpRemoteStore) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [RemoteStore].
func (h *httpRemoteStore) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SignInAnonymously implements [RemoteStore]. It POSTs to
// /api/auth/anonymous, reads {userId, refreshSecret} from the body and the
// bearer token from the Authorization header.
func (h *httpRemoteStore) SignInAnonymously(ctx context.Context) (models.Identity, error) {
	var body models.AnonymousAuthResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&body).
		Post("/api/auth/anonymous")
	if err != nil {
		return models.Identity{}, mapTransportError("anonymous sign-in request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	return h.identityFromResponse(resp, body.UserID, body.RefreshSecret)
}

// RefreshToken implements [RemoteStore]. It POSTs the refresh secret to
// /api/auth/token.
func (h *httpRemoteStore) RefreshToken(ctx context.Context, userID, refreshSecret string) (models.Identity, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.TokenRequest{UserID: userID, RefreshSecret: refreshSecret}).
		Post("/api/auth/token")
	if err != nil {
		return models.Identity{}, mapTransportError("token refresh request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Identity{}, err
	}

	return h.identityFromResponse(resp, userID, refreshSecret)
}

func (h *httpRemoteStore) identityFromResponse(resp *resty.Response, userID, refreshSecret string) (models.Identity, error) {
	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse bearer token: %w", err)
	}
	if userID == "" {
		return models.Identity{}, fmt.Errorf("%w: server returned no user id", ErrBadRequest)
	}

	expiresAt, err := utils.ExpiryFromJWT(token)
	if err != nil {
		return models.Identity{}, fmt.Errorf("read token expiry: %w", err)
	}

	h.SetToken(token)
	return models.Identity{
		UserID:        userID,
		RefreshSecret: refreshSecret,
		Token:         token,
		ExpiresAt:     expiresAt,
	}, nil
}

// WriteDocument implements [RemoteStore]. It PUTs the document to
// /api/users/{uid}/{collection}/{docID}; merge becomes ?merge=true and an
// expected revision the If-Match header.
func (h *httpRemoteStore) WriteDocument(ctx context.Context, path string, doc models.Document, opts WriteOptions) (models.Document, error) {
	p, err := parsePath(path, true)
	if err != nil {
		return models.Document{}, err
	}
	doc.ID = p.DocID

	var stored models.Document
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(doc).
		SetResult(&stored)
	if opts.Merge {
		req.SetQueryParam("merge", "true")
	}
	if opts.ExpectedRevision != nil {
		req.SetHeader("If-Match", strconv.FormatInt(*opts.ExpectedRevision, 10))
	}

	resp, err := req.Put(p.url())
	if err != nil {
		return models.Document{}, mapTransportError("write document request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Document{}, err
	}

	return stored, nil
}

// WriteBatch implements [RemoteStore]. Each chunk is one POST to
// /api/users/{uid}/{collection}/batch.
func (h *httpRemoteStore) WriteBatch(ctx context.Context, collectionPath string, docs []models.Document, merge bool, onChunk ChunkFunc) ([]models.Document, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	stored := make([]models.Document, 0, len(docs))
	for chunk, start := 0, 0; start < len(docs); chunk, start = chunk+1, start+h.batchLimit {
		if err = ctx.Err(); err != nil {
			return stored, &BatchError{Chunk: chunk, Written: len(stored), Err: err}
		}

		end := min(start+h.batchLimit, len(docs))
		written, err := h.writeChunk(ctx, p, docs[start:end], merge)
		if err != nil {
			h.logger.Err(err).
				Str("func", "httpRemoteStore.WriteBatch").
				Str("collection", p.Collection).
				Int("chunk", chunk).
				Msg("batch chunk failed")
			return stored, &BatchError{Chunk: chunk, Written: len(stored), Err: err}
		}
		stored = append(stored, written...)

		if onChunk != nil {
			onChunk(len(stored), len(docs))
		}
	}

	return stored, nil
}

func (h *httpRemoteStore) writeChunk(ctx context.Context, p remotePath, docs []models.Document, merge bool) ([]models.Document, error) {
	payload, err := json.Marshal(models.BatchWriteRequest{
		Documents: docs,
		Merge:     merge,
		Length:    len(docs),
	})
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	var result models.BatchWriteResponse
	req := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&result)
	if h.hasher != nil {
		req.SetHeader("HashSHA256", h.hasher.HashHex(payload))
	}

	resp, err := req.Post(p.url("batch"))
	if err != nil {
		return nil, mapTransportError("write batch request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return result.Documents, nil
}

// ReadDocument implements [RemoteStore].
func (h *httpRemoteStore) ReadDocument(ctx context.Context, path string) (*models.Document, error) {
	p, err := parsePath(path, true)
	if err != nil {
		return nil, err
	}

	var doc models.Document
	resp, err := h.authedRequest(ctx).SetResult(&doc).Get(p.url())
	if err != nil {
		return nil, mapTransportError("read document request", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	return &doc, nil
}

// ReadCollection implements [RemoteStore].
func (h *httpRemoteStore) ReadCollection(ctx context.Context, collectionPath string) ([]models.Document, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	var result models.CollectionResponse
	resp, err := h.authedRequest(ctx).SetResult(&result).Get(p.url())
	if err != nil {
		return nil, mapTransportError("read collection request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	if result.Length != len(result.Documents) {
		return nil, fmt.Errorf("%w: collection length %d, got %d documents", ErrBadRequest, result.Length, len(result.Documents))
	}

	return result.Documents, nil
}

// DeleteDocument implements [RemoteStore].
func (h *httpRemoteStore) DeleteDocument(ctx context.Context, path string) error {
	p, err := parsePath(path, true)
	if err != nil {
		return err
	}

	resp, err := h.authedRequest(ctx).Delete(p.url())
	if err != nil {
		return mapTransportError("delete document request", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	return mapHTTPError(resp)
}

// DeleteDocuments implements [RemoteStore]. Each chunk is one POST to
// /api/users/{uid}/{collection}/delete.
func (h *httpRemoteStore) DeleteDocuments(ctx context.Context, collectionPath string, ids []string) (int, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for start := 0; start < len(ids); start += h.batchLimit {
		if err = ctx.Err(); err != nil {
			return deleted, err
		}
		end := min(start+h.batchLimit, len(ids))

		var result models.BatchDeleteResponse
		resp, err := h.authedRequest(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(models.BatchDeleteRequest{IDs: ids[start:end]}).
			SetResult(&result).
			Post(p.url("delete"))
		if err != nil {
			return deleted, mapTransportError("delete documents request", err)
		}
		if err = mapHTTPError(resp); err != nil {
			return deleted, err
		}
		deleted += result.Deleted
	}

	return deleted, nil
}

// Subscribe implements [RemoteStore]. It dials the collection's websocket
// endpoint and decodes one [models.DocumentChange] per text message.
func (h *httpRemoteStore) Subscribe(ctx context.Context, collectionPath string) (<-chan models.DocumentChange, error) {
	p, err := parsePath(collectionPath, false)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	if token := h.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.Dial(ctx, h.baseURL+p.url("subscribe"), &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: subscribe rejected", ErrUnauthorized)
		}
		return nil, mapTransportError("subscribe", err)
	}
	conn.SetReadLimit(subscribeReadLimit)

	changes := make(chan models.DocumentChange)
	go h.readChanges(ctx, conn, changes)

	return changes, nil
}

func (h *httpRemoteStore) readChanges(ctx context.Context, conn *websocket.Conn, out chan<- models.DocumentChange) {
	defer close(out)
	defer conn.Close(websocket.StatusNormalClosure, "")

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				h.logger.Warn().Err(err).Str("func", "httpRemoteStore.readChanges").Msg("subscription closed")
			}
			return
		}

		var change models.DocumentChange
		if err = json.Unmarshal(data, &change); err != nil {
			h.logger.Warn().Err(err).Str("func", "httpRemoteStore.readChanges").Msg("skipping malformed change")
			continue
		}

		select {
		case out <- change:
		case <-ctx.Done():
			return
		}
	}
}

func (h *httpRemoteStore) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// IsRetryable reports whether err is a transient transport failure.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServerUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
