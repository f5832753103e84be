// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/models"
)

const (
	testUserID  = "u-1"
	testToken   = "tok"
	testHashKey = "hash-key"
)

type handlerMocks struct {
	auth   *mock.MockAuthService
	docs   *mock.MockDocumentService
	info   *mock.MockAppInfoService
	health *mock.MockHealthService
}

func newTestHandler(t *testing.T, cfg *config.ServerConfig) (*Handler, handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)

	m := handlerMocks{
		auth:   mock.NewMockAuthService(ctrl),
		docs:   mock.NewMockDocumentService(ctrl),
		info:   mock.NewMockAppInfoService(ctrl),
		health: mock.NewMockHealthService(ctrl),
	}
	if cfg == nil {
		cfg = &config.ServerConfig{}
	}

	h := NewHandler(&service.Services{
		AuthService:     m.auth,
		DocumentService: m.docs,
		AppInfoService:  m.info,
		HealthService:   m.health,
	}, cfg, logger.Nop())

	return h, m
}

// signedIn makes testToken resolve to testUserID.
func (m handlerMocks) signedIn() {
	m.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: testUserID}, nil).AnyTimes()
}

type requestOption func(r *http.Request)

func withHeader(key, value string) requestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

func withBearer() requestOption {
	return withHeader("Authorization", "Bearer "+testToken)
}

func serve(t *testing.T, h http.Handler, method, path string, body any, opts ...requestOption) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for _, opt := range opts {
		opt(req)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

// ── NewHandler ───────────────────────────────────────────────────────────────

func TestNewHandler(t *testing.T) {
	t.Run("without hash key", func(t *testing.T) {
		h, _ := newTestHandler(t, nil)
		require.NotNil(t, h)
		assert.Nil(t, h.hasher)
	})

	t.Run("with hash key and timeout", func(t *testing.T) {
		h, _ := newTestHandler(t, &config.ServerConfig{
			App:    config.App{HashKey: testHashKey},
			Server: config.Server{RequestTimeout: 3 * time.Second},
		})
		assert.NotNil(t, h.hasher)
		assert.Equal(t, 3*time.Second, h.requestTimeout)
	})
}

// ── routing ──────────────────────────────────────────────────────────────────

func TestInit_Version(t *testing.T) {
	h, m := newTestHandler(t, nil)
	m.info.EXPECT().GetAppVersion(gomock.Any()).Return("1.2.3")

	rec := serve(t, h.Init(), http.MethodGet, "/api/version", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1.2.3", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestInit_Health(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.health.EXPECT().Check(gomock.Any()).Return(nil)

		rec := serve(t, h.Init(), http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store down", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.health.EXPECT().Check(gomock.Any()).Return(service.ErrNotReady)

		rec := serve(t, h.Init(), http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestInit_UnknownRoutesAnswer404(t *testing.T) {
	h, m := newTestHandler(t, nil)
	m.signedIn()
	router := h.Init()

	tests := []struct {
		name   string
		method string
		path   string
		opts   []requestOption
	}{
		{name: "unknown path", method: http.MethodGet, path: "/api/nothing"},
		{name: "wrong method on public route", method: http.MethodGet, path: "/api/auth/token"},
		{name: "wrong method on document route", method: http.MethodPatch, path: "/api/users/u-1/transactions/t-1", opts: []requestOption{withBearer()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, router, tt.method, tt.path, nil, tt.opts...)
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestInit_DocumentRoutesRequireToken(t *testing.T) {
	h, _ := newTestHandler(t, nil)
	router := h.Init()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users/u-1/transactions"},
		{http.MethodGet, "/api/users/u-1/transactions/t-1"},
		{http.MethodPut, "/api/users/u-1/transactions/t-1"},
		{http.MethodDelete, "/api/users/u-1/transactions/t-1"},
		{http.MethodPost, "/api/users/u-1/transactions/batch"},
		{http.MethodPost, "/api/users/u-1/transactions/delete"},
		{http.MethodGet, "/api/users/u-1/transactions/subscribe"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			rec := serve(t, router, route.method, route.path, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
