// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestSignInAnonymously(t *testing.T) {
	t.Run("issues identity and token", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.auth.EXPECT().SignInAnonymously(gomock.Any()).Return(
			models.AnonymousAuthResponse{UserID: "u-9", RefreshSecret: "secret"},
			models.Token{SignedString: "signed.jwt"},
			nil,
		)

		rec := serve(t, h.Init(), http.MethodPost, "/api/auth/anonymous", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Bearer signed.jwt", rec.Header().Get("Authorization"))

		var body models.AnonymousAuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, models.AnonymousAuthResponse{UserID: "u-9", RefreshSecret: "secret"}, body)
	})

	t.Run("store failure hides details", func(t *testing.T) {
		h, m := newTestHandler(t, nil)
		m.auth.EXPECT().SignInAnonymously(gomock.Any()).Return(
			models.AnonymousAuthResponse{}, models.Token{},
			fmt.Errorf("user creation ended with error: %w", store.ErrExecutingQuery),
		)

		rec := serve(t, h.Init(), http.MethodPost, "/api/auth/anonymous", nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), decodeError(t, rec))
		assert.Empty(t, rec.Header().Get("Authorization"))
	})
}

func TestExchangeToken(t *testing.T) {
	req := models.TokenRequest{UserID: "u-1", RefreshSecret: "secret"}

	tests := []struct {
		name       string
		body       any
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "valid secret", body: req, callsSvc: true, wantStatus: http.StatusOK},
		{name: "invalid JSON", body: "{", wantStatus: http.StatusBadRequest},
		{name: "empty request", body: models.TokenRequest{}, serviceErr: service.ErrInvalidDataProvided, callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "wrong secret", body: req, serviceErr: service.ErrInvalidRefreshSecret, callsSvc: true, wantStatus: http.StatusUnauthorized},
		{name: "store down", body: req, serviceErr: fmt.Errorf("lookup: %w", store.ErrStoreUnavailable), callsSvc: true, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t, nil)
			if tt.callsSvc {
				token := models.Token{}
				if tt.serviceErr == nil {
					token.SignedString = "fresh.jwt"
				}
				m.auth.EXPECT().ExchangeToken(gomock.Any(), gomock.Any()).Return(token, tt.serviceErr)
			}

			rec := serve(t, h.Init(), http.MethodPost, "/api/auth/token", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "Bearer fresh.jwt", rec.Header().Get("Authorization"))
			} else {
				assert.NotEmpty(t, decodeError(t, rec))
			}
		})
	}
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: service.ErrTokenIsExpiredOrInvalid, want: http.StatusUnauthorized},
		{err: fmt.Errorf("put: %w", store.ErrRevisionConflict), want: http.StatusConflict},
		{err: fmt.Errorf("get: %w", store.ErrDocumentNotFound), want: http.StatusNotFound},
		{err: store.ErrStoreUnavailable, want: http.StatusServiceUnavailable},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}
