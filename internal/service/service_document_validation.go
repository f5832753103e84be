// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/validators"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// DocumentValidationService rejects malformed requests before they reach
// the wrapped DocumentService.
type DocumentValidationService struct {
	inner     DocumentService
	validator validators.Validator
}

func NewDocumentValidationService() DocumentServiceWrapper {
	return &DocumentValidationService{
		validator: validators.NewDocumentValidator(),
	}
}

func (v *DocumentValidationService) Wrap(wrapped DocumentService) DocumentService {
	v.inner = wrapped
	return v
}

func (v *DocumentValidationService) Get(ctx context.Context, userID, collection, docID string) (models.Document, error) {
	if err := validateLocation(userID, collection, docID); err != nil {
		return models.Document{}, err
	}
	return v.inner.Get(ctx, userID, collection, docID)
}

func (v *DocumentValidationService) List(ctx context.Context, userID, collection string) ([]models.Document, error) {
	if err := validateLocation(userID, collection, ""); err != nil {
		return nil, err
	}
	return v.inner.List(ctx, userID, collection)
}

func (v *DocumentValidationService) Put(ctx context.Context, userID, collection string, doc models.Document, opts store.PutOptions) (models.Document, error) {
	if err := validateLocation(userID, collection, doc.ID); err != nil {
		return models.Document{}, err
	}

	// a merge may leave the payload to the stored document
	fields := []string{validators.FieldID, validators.FieldDeviceID, validators.FieldVersion}
	if !opts.Merge {
		fields = append(fields, validators.FieldPayload)
	}
	if err := v.validator.Validate(ctx, doc, fields...); err != nil {
		return models.Document{}, fmt.Errorf("error during document validation before saving: %w", err)
	}
	if opts.ExpectedRevision != nil && *opts.ExpectedRevision < 0 {
		return models.Document{}, fmt.Errorf("%w: negative expected revision", ErrInvalidDataProvided)
	}

	return v.inner.Put(ctx, userID, collection, doc, opts)
}

func (v *DocumentValidationService) PutBatch(ctx context.Context, userID, collection string, req models.BatchWriteRequest) ([]models.Document, error) {
	if err := validateLocation(userID, collection, ""); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("error during batch validation before saving: %w", err)
	}
	return v.inner.PutBatch(ctx, userID, collection, req)
}

func (v *DocumentValidationService) Delete(ctx context.Context, userID, collection, docID string) error {
	if err := validateLocation(userID, collection, docID); err != nil {
		return err
	}
	return v.inner.Delete(ctx, userID, collection, docID)
}

func (v *DocumentValidationService) DeleteBatch(ctx context.Context, userID, collection string, ids []string) (int, error) {
	if err := validateLocation(userID, collection, ""); err != nil {
		return 0, err
	}
	if err := v.validator.Validate(ctx, models.BatchDeleteRequest{IDs: ids}); err != nil {
		return 0, fmt.Errorf("error during batch delete validation: %w", err)
	}
	return v.inner.DeleteBatch(ctx, userID, collection, ids)
}

func (v *DocumentValidationService) Subscribe(ctx context.Context, userID, collection string) (<-chan models.DocumentChange, func()) {
	return v.inner.Subscribe(ctx, userID, collection)
}

// validateLocation checks the path parts; an empty docID is not checked.
func validateLocation(userID, collection, docID string) error {
	if userID == "" {
		return ErrValidationNoUserID
	}
	if err := validators.ValidateCollection(collection); err != nil {
		return err
	}
	if docID != "" {
		return validators.ValidateDocumentID(docID)
	}
	return nil
}
