// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/crypto"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestClientKeyService_ExportImportRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	srcMeta := mock.NewMockMetadataRepository(ctrl)
	srcKeys := crypto.NewMemoryKeyStore(nil)
	src := NewClientKeyService(srcKeys, srcMeta, mock.NewMockRemoteStore(ctrl), logger.Nop())

	srcMeta.EXPECT().GetIdentity(ctx).Return(models.Identity{UserID: "u-1", RefreshSecret: "secret", Token: "tok"}, nil)
	code, err := src.ExportRecoveryKey(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, pairingPrefix))
	assert.NotContains(t, code, "tok")

	dstMeta := mock.NewMockMetadataRepository(ctrl)
	dstRemote := mock.NewMockRemoteStore(ctrl)
	dstKeys := crypto.NewMemoryKeyStore(nil)
	dst := NewClientKeyService(dstKeys, dstMeta, dstRemote, logger.Nop())

	gomock.InOrder(
		dstMeta.EXPECT().SaveIdentity(ctx, models.Identity{UserID: "u-1", RefreshSecret: "secret"}).Return(nil),
		dstMeta.EXPECT().DeleteSyncMetadata(ctx).Return(nil),
		dstRemote.EXPECT().SetToken(""),
	)
	// surrounding whitespace from a paste is fine
	require.NoError(t, dst.ImportRecoveryKey(ctx, "  "+code+"\n"))

	want, err := src.Fingerprint(ctx)
	require.NoError(t, err)
	got, err := dst.Fingerprint(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientKeyService_ExportRequiresIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	meta := mock.NewMockMetadataRepository(ctrl)
	svc := NewClientKeyService(crypto.NewMemoryKeyStore(nil), meta, mock.NewMockRemoteStore(ctrl), logger.Nop())

	meta.EXPECT().GetIdentity(gomock.Any()).Return(models.Identity{}, store.ErrNotFound)
	_, err := svc.ExportRecoveryKey(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestClientKeyService_ImportRejectsBadCodes(t *testing.T) {
	encode := func(s string) string {
		return pairingPrefix + base64.RawURLEncoding.EncodeToString([]byte(s))
	}

	tests := []struct {
		name string
		code string
		want error
	}{
		{name: "empty", code: "", want: ErrInvalidPairingCode},
		{name: "bare recovery key", code: "lsk1.abc.def", want: ErrInvalidPairingCode},
		{name: "not base64", code: pairingPrefix + "***", want: ErrInvalidPairingCode},
		{name: "not json", code: encode("hello"), want: ErrInvalidPairingCode},
		{name: "missing secret", code: encode(`{"u":"u-1","k":"lsk1.a.b"}`), want: ErrInvalidPairingCode},
		{name: "bad key", code: encode(`{"u":"u-1","s":"x","k":"lsk1.a.b"}`), want: ErrEncryption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			// nothing is persisted for a rejected code
			svc := NewClientKeyService(crypto.NewMemoryKeyStore(nil), mock.NewMockMetadataRepository(ctrl), mock.NewMockRemoteStore(ctrl), logger.Nop())

			err := svc.ImportRecoveryKey(context.Background(), tt.code)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
