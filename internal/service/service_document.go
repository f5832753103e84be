// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// documentService stores documents and announces every successful write to
// the broker.
type documentService struct {
	documentRepository store.DocumentRepository
	broker             *ChangeBroker
	logger             *logger.Logger
}

func NewDocumentService(documentRepository store.DocumentRepository, broker *ChangeBroker, logger *logger.Logger) DocumentService {
	return &documentService{
		documentRepository: documentRepository,
		broker:             broker,
		logger:             logger,
	}
}

func (s *documentService) Get(ctx context.Context, userID, collection, docID string) (models.Document, error) {
	doc, err := s.documentRepository.Get(ctx, userID, collection, docID)
	if err != nil {
		return models.Document{}, fmt.Errorf("get %s/%s: %w", collection, docID, err)
	}
	return doc, nil
}

func (s *documentService) List(ctx context.Context, userID, collection string) ([]models.Document, error) {
	docs, err := s.documentRepository.List(ctx, userID, collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return docs, nil
}

func (s *documentService) Put(ctx context.Context, userID, collection string, doc models.Document, opts store.PutOptions) (models.Document, error) {
	stored, err := s.documentRepository.Put(ctx, userID, collection, doc, opts)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("collection", collection).
			Str("doc_id", doc.ID).
			Msg("document write failed")
		return models.Document{}, fmt.Errorf("put %s/%s: %w", collection, doc.ID, err)
	}

	s.publish(models.ChangeUpsert, userID, collection, stored)
	return stored, nil
}

func (s *documentService) PutBatch(ctx context.Context, userID, collection string, req models.BatchWriteRequest) ([]models.Document, error) {
	stored, err := s.documentRepository.PutBatch(ctx, userID, collection, req.Documents, req.Merge)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("collection", collection).
			Int("documents", len(req.Documents)).
			Msg("batch write failed")
		return nil, fmt.Errorf("put batch into %s: %w", collection, err)
	}

	for _, doc := range stored {
		s.publish(models.ChangeUpsert, userID, collection, doc)
	}
	return stored, nil
}

func (s *documentService) Delete(ctx context.Context, userID, collection, docID string) error {
	if err := s.documentRepository.Delete(ctx, userID, collection, docID); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, docID, err)
	}

	s.publish(models.ChangeDelete, userID, collection, models.Document{ID: docID})
	return nil
}

func (s *documentService) DeleteBatch(ctx context.Context, userID, collection string, ids []string) (int, error) {
	deleted, err := s.documentRepository.DeleteBatch(ctx, userID, collection, ids)
	if err != nil {
		return 0, fmt.Errorf("delete batch from %s: %w", collection, err)
	}

	if deleted > 0 {
		for _, id := range ids {
			s.publish(models.ChangeDelete, userID, collection, models.Document{ID: id})
		}
	}
	return int(deleted), nil
}

func (s *documentService) Subscribe(ctx context.Context, userID, collection string) (<-chan models.DocumentChange, func()) {
	changes, cancel := s.broker.Subscribe(userID, collection)

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return changes, cancel
}

func (s *documentService) publish(changeType models.ChangeType, userID, collection string, doc models.Document) {
	s.broker.Publish(models.DocumentChange{
		Type:       changeType,
		UserID:     userID,
		Collection: collection,
		Document:   doc,
	})
}
