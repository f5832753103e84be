// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/adapter"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

var identityNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestIdentitySvc(t *testing.T) (*clientIdentityService, *mock.MockMetadataRepository, *mock.MockRemoteStore) {
	t.Helper()
	ctrl := gomock.NewController(t)

	metadata := mock.NewMockMetadataRepository(ctrl)
	remote := mock.NewMockRemoteStore(ctrl)

	svc := NewClientIdentityService(metadata, remote, logger.Nop()).(*clientIdentityService)
	svc.now = func() time.Time { return identityNow }
	svc.hostname = func() (string, error) { return "Work Laptop.local", nil }

	return svc, metadata, remote
}

// ── Authenticate ─────────────────────────────────────────────────────────────

func TestClientIdentityService_Authenticate_FirstRunSignsIn(t *testing.T) {
	svc, metadata, remote := newTestIdentitySvc(t)
	ctx := context.Background()

	fresh := models.Identity{UserID: "u-1", RefreshSecret: "s", Token: "tok", ExpiresAt: identityNow.Add(time.Hour)}
	gomock.InOrder(
		metadata.EXPECT().GetIdentity(ctx).Return(models.Identity{}, store.ErrNotFound),
		remote.EXPECT().SignInAnonymously(ctx).Return(fresh, nil),
		metadata.EXPECT().SaveIdentity(ctx, fresh).Return(nil),
		remote.EXPECT().SetToken("tok"),
	)

	got, err := svc.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, got)
}

func TestClientIdentityService_Authenticate_ReusesValidToken(t *testing.T) {
	svc, metadata, remote := newTestIdentitySvc(t)
	ctx := context.Background()

	saved := models.Identity{UserID: "u-1", RefreshSecret: "s", Token: "tok", ExpiresAt: identityNow.Add(10 * time.Minute)}
	metadata.EXPECT().GetIdentity(ctx).Return(saved, nil)
	remote.EXPECT().SetToken("tok")

	got, err := svc.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestClientIdentityService_Authenticate_RefreshesNearExpiry(t *testing.T) {
	svc, metadata, remote := newTestIdentitySvc(t)
	ctx := context.Background()

	saved := models.Identity{UserID: "u-1", RefreshSecret: "s", Token: "old", ExpiresAt: identityNow.Add(30 * time.Second)}
	refreshed := saved
	refreshed.Token = "new"
	refreshed.ExpiresAt = identityNow.Add(time.Hour)

	gomock.InOrder(
		metadata.EXPECT().GetIdentity(ctx).Return(saved, nil),
		remote.EXPECT().RefreshToken(ctx, "u-1", "s").Return(refreshed, nil),
		metadata.EXPECT().SaveIdentity(ctx, refreshed).Return(nil),
		remote.EXPECT().SetToken("new"),
	)

	got, err := svc.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
}

func TestClientIdentityService_Authenticate_RejectedSecretSignsInAnew(t *testing.T) {
	svc, metadata, remote := newTestIdentitySvc(t)
	ctx := context.Background()

	saved := models.Identity{UserID: "u-old", RefreshSecret: "s"}
	fresh := models.Identity{UserID: "u-new", RefreshSecret: "s2", Token: "tok", ExpiresAt: identityNow.Add(time.Hour)}

	gomock.InOrder(
		metadata.EXPECT().GetIdentity(ctx).Return(saved, nil),
		remote.EXPECT().RefreshToken(ctx, "u-old", "s").Return(models.Identity{}, adapter.ErrUnauthorized),
		remote.EXPECT().SignInAnonymously(ctx).Return(fresh, nil),
		metadata.EXPECT().SaveIdentity(ctx, fresh).Return(nil),
		remote.EXPECT().SetToken("tok"),
	)

	got, err := svc.Authenticate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u-new", got.UserID)
}

func TestClientIdentityService_Authenticate_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("network during refresh", func(t *testing.T) {
		svc, metadata, remote := newTestIdentitySvc(t)
		metadata.EXPECT().GetIdentity(ctx).Return(models.Identity{UserID: "u-1", RefreshSecret: "s"}, nil)
		remote.EXPECT().RefreshToken(ctx, "u-1", "s").Return(models.Identity{}, adapter.ErrNetwork)

		_, err := svc.Authenticate(ctx)
		assert.ErrorIs(t, err, ErrAuthentication)
		assert.ErrorIs(t, err, adapter.ErrNetwork)
	})

	t.Run("sign-in fails", func(t *testing.T) {
		svc, metadata, remote := newTestIdentitySvc(t)
		metadata.EXPECT().GetIdentity(ctx).Return(models.Identity{}, store.ErrNotFound)
		remote.EXPECT().SignInAnonymously(ctx).Return(models.Identity{}, adapter.ErrServerUnavailable)

		_, err := svc.Authenticate(ctx)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("local store fails", func(t *testing.T) {
		svc, metadata, _ := newTestIdentitySvc(t)
		metadata.EXPECT().GetIdentity(ctx).Return(models.Identity{}, errors.New("database is locked"))

		_, err := svc.Authenticate(ctx)
		assert.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("identity not persisted", func(t *testing.T) {
		svc, metadata, remote := newTestIdentitySvc(t)
		metadata.EXPECT().GetIdentity(ctx).Return(models.Identity{}, store.ErrNotFound)
		remote.EXPECT().SignInAnonymously(ctx).Return(models.Identity{UserID: "u-1", Token: "tok"}, nil)
		metadata.EXPECT().SaveIdentity(ctx, gomock.Any()).Return(errors.New("disk full"))

		_, err := svc.Authenticate(ctx)
		assert.ErrorIs(t, err, ErrAuthentication)
	})
}

// ── SignOut / IsAuthenticated ────────────────────────────────────────────────

func TestClientIdentityService_SignOut(t *testing.T) {
	svc, metadata, remote := newTestIdentitySvc(t)
	ctx := context.Background()

	gomock.InOrder(
		metadata.EXPECT().DeleteIdentity(ctx).Return(nil),
		metadata.EXPECT().DeleteSyncMetadata(ctx).Return(nil),
		remote.EXPECT().SetToken(""),
	)
	require.NoError(t, svc.SignOut(ctx))

	remote.EXPECT().Token().Return("")
	assert.False(t, svc.IsAuthenticated())
}

// ── GetOrCreateDeviceID ──────────────────────────────────────────────────────

func TestClientIdentityService_GetOrCreateDeviceID(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted", func(t *testing.T) {
		svc, metadata, _ := newTestIdentitySvc(t)
		metadata.EXPECT().GetDeviceID(ctx).Return("laptop-0a1b2c3d-1780000000", nil)

		id, err := svc.GetOrCreateDeviceID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "laptop-0a1b2c3d-1780000000", id)
	})

	t.Run("generated once", func(t *testing.T) {
		svc, metadata, _ := newTestIdentitySvc(t)
		var saved string
		metadata.EXPECT().GetDeviceID(ctx).Return("", store.ErrNotFound)
		metadata.EXPECT().SaveDeviceID(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, id string) error {
			saved = id
			return nil
		})

		id, err := svc.GetOrCreateDeviceID(ctx)
		require.NoError(t, err)
		assert.Equal(t, saved, id)
		assert.Regexp(t, regexp.MustCompile(`^work-laptop-local-[0-9a-f]{8}-1780315200$`), id)
	})

	t.Run("lookup fails", func(t *testing.T) {
		svc, metadata, _ := newTestIdentitySvc(t)
		metadata.EXPECT().GetDeviceID(ctx).Return("", errors.New("database is locked"))

		_, err := svc.GetOrCreateDeviceID(ctx)
		assert.Error(t, err)
	})
}

func TestSanitizeHostname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "MacBook-Pro", want: "macbook-pro"},
		{in: "  desk__01 ", want: "desk-01"},
		{in: "Иван-PC", want: "pc"},
		{in: "", want: "device"},
		{in: "---", want: "device"},
		{in: strings.Repeat("a", 40), want: strings.Repeat("a", maxHostnameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeHostname(tt.in))
		})
	}
}
