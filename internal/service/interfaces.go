// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock -exclude_interfaces=DocumentServiceWrapper

type AuthService interface {
	// SignInAnonymously registers a new user and returns its refresh secret
	// together with a bearer token.
	SignInAnonymously(ctx context.Context) (models.AnonymousAuthResponse, models.Token, error)
	// ExchangeToken issues a new bearer token for a known user id and
	// refresh secret.
	ExchangeToken(ctx context.Context, req models.TokenRequest) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type DocumentService interface {
	Get(ctx context.Context, userID, collection, docID string) (models.Document, error)
	List(ctx context.Context, userID, collection string) ([]models.Document, error)
	Put(ctx context.Context, userID, collection string, doc models.Document, opts store.PutOptions) (models.Document, error)
	PutBatch(ctx context.Context, userID, collection string, req models.BatchWriteRequest) ([]models.Document, error)
	Delete(ctx context.Context, userID, collection, docID string) error
	DeleteBatch(ctx context.Context, userID, collection string, ids []string) (int, error)

	// Subscribe streams changes of one collection until cancel is called or
	// ctx is done.
	Subscribe(ctx context.Context, userID, collection string) (changes <-chan models.DocumentChange, cancel func())
}

// DocumentServiceWrapper defines middleware composition for DocumentService.
// Implementations wrap an existing DocumentService to add behavior such as
// validation.
type DocumentServiceWrapper interface {
	Wrap(DocumentService) DocumentService
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// HealthService reports whether the document store can serve requests.
type HealthService interface {
	Check(ctx context.Context) error
}
