// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

var testAppConfig = config.App{
	TokenSignKey:  "sign-key",
	TokenIssuer:   "ledger-sync",
	TokenDuration: time.Hour,
	SecretHashKey: "secret-hash-key",
	Version:       "1.2.3",
}

func newTestAuthService(t *testing.T) (AuthService, *mock.MockUserRepository) {
	t.Helper()
	repo := mock.NewMockUserRepository(gomock.NewController(t))
	return NewAuthService(repo, testAppConfig, logger.Nop()), repo
}

// ── SignInAnonymously ────────────────────────────────────────────────────────

func TestAuthService_SignInAnonymously(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	var stored models.User
	repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
		stored = u
		return u, nil
	})

	resp, token, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)

	assert.Equal(t, stored.UserID, resp.UserID)
	assert.NotEmpty(t, resp.RefreshSecret)
	// only the HMAC is stored
	assert.NotEqual(t, resp.RefreshSecret, stored.SecretHash)
	assert.True(t, utils.NewHasher(testAppConfig.SecretHashKey).Verify([]byte(resp.RefreshSecret), stored.SecretHash))

	parsed, err := svc.ParseToken(ctx, token.String())
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, parsed.UserID)
}

func TestAuthService_SignInAnonymously_RetriesIDCollision(t *testing.T) {
	svc, repo := newTestAuthService(t)
	ctx := context.Background()

	gomock.InOrder(
		repo.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists),
		repo.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, u models.User) (models.User, error) {
			return u, nil
		}),
	)

	resp, _, err := svc.SignInAnonymously(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
}

func TestAuthService_SignInAnonymously_GivesUp(t *testing.T) {
	t.Run("collisions", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrUserAlreadyExists).Times(maxSignInAttempts)

		_, _, err := svc.SignInAnonymously(context.Background())
		assert.ErrorIs(t, err, store.ErrUserAlreadyExists)
	})

	t.Run("database down", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(models.User{}, store.ErrStoreUnavailable)

		_, _, err := svc.SignInAnonymously(context.Background())
		assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	})
}

// ── ExchangeToken ────────────────────────────────────────────────────────────

func TestAuthService_ExchangeToken(t *testing.T) {
	ctx := context.Background()
	hash := utils.NewHasher(testAppConfig.SecretHashKey).HashHex([]byte("s3cret"))

	t.Run("valid secret", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().FindUserByID(ctx, "u-1").Return(models.User{UserID: "u-1", SecretHash: hash}, nil)

		token, err := svc.ExchangeToken(ctx, models.TokenRequest{UserID: "u-1", RefreshSecret: "s3cret"})
		require.NoError(t, err)
		assert.NotEmpty(t, token.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().FindUserByID(ctx, "u-1").Return(models.User{UserID: "u-1", SecretHash: hash}, nil)

		_, err := svc.ExchangeToken(ctx, models.TokenRequest{UserID: "u-1", RefreshSecret: "guess"})
		assert.ErrorIs(t, err, ErrInvalidRefreshSecret)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().FindUserByID(ctx, "u-404").Return(models.User{}, store.ErrNoUserWasFound)

		_, err := svc.ExchangeToken(ctx, models.TokenRequest{UserID: "u-404", RefreshSecret: "s3cret"})
		assert.ErrorIs(t, err, ErrInvalidRefreshSecret)
	})

	t.Run("empty request", func(t *testing.T) {
		svc, _ := newTestAuthService(t)

		_, err := svc.ExchangeToken(ctx, models.TokenRequest{UserID: "u-1"})
		assert.ErrorIs(t, err, ErrInvalidDataProvided)
	})

	t.Run("lookup fails", func(t *testing.T) {
		svc, repo := newTestAuthService(t)
		repo.EXPECT().FindUserByID(ctx, "u-1").Return(models.User{}, errors.New("connection reset"))

		_, err := svc.ExchangeToken(ctx, models.TokenRequest{UserID: "u-1", RefreshSecret: "s3cret"})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidRefreshSecret)
	})
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	other, err := utils.GenerateJWTToken(testAppConfig.TokenIssuer, "u-1", time.Hour, "another-key")
	require.NoError(t, err)
	foreignIssuer, err := utils.GenerateJWTToken("someone-else", "u-1", time.Hour, testAppConfig.TokenSignKey)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":     "not-a-jwt",
		"foreign key": other.String(),
		"issuer":      foreignIssuer.String(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ParseToken(ctx, raw)
			assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
		})
	}
}

func TestAppInfoService(t *testing.T) {
	svc, err := NewAppInfoService(testAppConfig, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", svc.GetAppVersion(context.Background()))

	_, err = NewAppInfoService(config.App{}, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)

	_, err = NewAppInfoService(config.App{Version: "  "}, logger.Nop())
	assert.ErrorIs(t, err, ErrVersionIsNotSpecified)

	svc, err = NewAppInfoService(config.App{Version: " 2.0.0\n"}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", svc.GetAppVersion(context.Background()))
}
