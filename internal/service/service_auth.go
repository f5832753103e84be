// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// refreshSecretBytes is the entropy of a refresh secret.
const refreshSecretBytes = 32

// maxSignInAttempts bounds retries on a user id collision.
const maxSignInAttempts = 3

// authService is the concrete implementation of AuthService.
// It registers anonymous users, verifies refresh secrets and issues JWT
// bearer tokens.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// secretHasher computes the HMAC stored in place of a refresh secret.
	secretHasher *utils.Hasher

	ids *utils.UUIDGenerator

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository and populated with security parameters from cfg.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		secretHasher:   utils.NewHasher(cfg.SecretHashKey),
		ids:            utils.NewUUIDGenerator(),
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// SignInAnonymously creates a user with a random id and refresh secret.
// Only the HMAC of the secret is stored.
func (a *authService) SignInAnonymously(ctx context.Context) (models.AnonymousAuthResponse, models.Token, error) {
	log := logger.FromContext(ctx)

	secret, err := utils.RandomSecret(refreshSecretBytes)
	if err != nil {
		return models.AnonymousAuthResponse{}, models.Token{}, fmt.Errorf("generate refresh secret: %w", err)
	}

	var user models.User
	for attempt := 1; ; attempt++ {
		user, err = a.userRepository.CreateUser(ctx, models.User{
			UserID:     a.ids.Generate(),
			SecretHash: a.secretHasher.HashHex([]byte(secret)),
		})
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrUserAlreadyExists) || attempt == maxSignInAttempts {
			log.Err(err).Msg("anonymous user creation failed")
			return models.AnonymousAuthResponse{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
		}
	}

	token, err := a.createToken(user.UserID)
	if err != nil {
		return models.AnonymousAuthResponse{}, models.Token{}, err
	}

	log.Info().Str("user_id", user.UserID).Msg("anonymous user registered")
	return models.AnonymousAuthResponse{UserID: user.UserID, RefreshSecret: secret}, token, nil
}

// ExchangeToken verifies the refresh secret against the stored HMAC.
//
// Returns ErrInvalidDataProvided for an empty request and
// ErrInvalidRefreshSecret for an unknown user or a wrong secret; the two
// cases are indistinguishable to the caller.
func (a *authService) ExchangeToken(ctx context.Context, req models.TokenRequest) (models.Token, error) {
	log := logger.FromContext(ctx)

	if req.UserID == "" || req.RefreshSecret == "" {
		log.Error().Str("user_id", req.UserID).Msg("invalid token request")
		return models.Token{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByID(ctx, req.UserID)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Warn().Str("user_id", req.UserID).Msg("token requested for unknown user")
		return models.Token{}, ErrInvalidRefreshSecret
	}
	if err != nil {
		return models.Token{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !a.secretHasher.Verify([]byte(req.RefreshSecret), user.SecretHash) {
		log.Warn().Str("user_id", req.UserID).Msg("wrong refresh secret")
		return models.Token{}, ErrInvalidRefreshSecret
	}

	return a.createToken(user.UserID)
}

func (a *authService) createToken(userID string) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, userID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string. Any validation failure
// (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}
