// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-ledger-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldID targets the document id.
	FieldID = "id"

	// FieldDeviceID targets the writing device id.
	FieldDeviceID = "device_id"

	// FieldPayload requires exactly one of encrypted or plain data.
	FieldPayload = "payload"

	// FieldVersion targets the wire format version.
	FieldVersion = "version"

	// FieldDocuments validates every document of a batch.
	FieldDocuments = "documents"

	// FieldLength checks the declared batch length.
	FieldLength = "length"

	// FieldIDs targets the id list of a batch delete.
	FieldIDs = "ids"
)

// MaxIDLength bounds document and device ids.
const MaxIDLength = 128

// allowedCollections is the exhaustive set of collections under users/{uid}.
var allowedCollections = []string{
	models.CollectionTransactions,
	models.CollectionSettings,
	models.CollectionGamification,
	models.CollectionMeta,
}

// DocumentValidator implements Validator for models.Document,
// models.BatchWriteRequest and models.BatchDeleteRequest, value or pointer.
type DocumentValidator struct {
}

// NewDocumentValidator constructs a new DocumentValidator and returns it as
// the Validator interface.
func NewDocumentValidator() Validator {
	return &DocumentValidator{}
}

// Validate dispatches on the dynamic type of obj. Returns ErrUnsupportedType
// for anything else.
func (v *DocumentValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Document:
		return v.validateDocument(ctx, value, fields...)
	case *models.Document:
		return v.validateDocument(ctx, *value, fields...)

	case models.BatchWriteRequest:
		return v.validateBatchWrite(ctx, value, fields...)
	case *models.BatchWriteRequest:
		return v.validateBatchWrite(ctx, *value, fields...)

	case models.BatchDeleteRequest:
		return v.validateBatchDelete(ctx, value, fields...)
	case *models.BatchDeleteRequest:
		return v.validateBatchDelete(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// ValidateCollection reports whether name is one of the known collections.
func ValidateCollection(name string) error {
	for _, c := range allowedCollections {
		if name == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
}

// ValidateDocumentID rejects ids that cannot be a single path segment.
func ValidateDocumentID(id string) error {
	switch {
	case id == "", id == ".", id == "..":
		return fmt.Errorf("%w: %q", ErrInvalidDocumentID, id)
	case len(id) > MaxIDLength:
		return fmt.Errorf("%w: longer than %d", ErrInvalidDocumentID, MaxIDLength)
	case strings.ContainsAny(id, "/\\?#"):
		return fmt.Errorf("%w: %q", ErrInvalidDocumentID, id)
	}
	return nil
}

// validateDocument checks one document. Default fields: id, device id,
// payload and version.
func (v *DocumentValidator) validateDocument(_ context.Context, doc models.Document, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldID, FieldDeviceID, FieldPayload, FieldVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldID:
			if err := ValidateDocumentID(doc.ID); err != nil {
				return err
			}
		case FieldDeviceID:
			if len(doc.DeviceID) > MaxIDLength {
				return ErrInvalidDeviceID
			}
		case FieldPayload:
			if err := validatePayload(doc); err != nil {
				return err
			}
		case FieldVersion:
			if doc.Version != models.DocumentVersion {
				return fmt.Errorf("%w: %d", ErrInvalidVersion, doc.Version)
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validatePayload(doc models.Document) error {
	hasPlain := len(bytes.TrimSpace(doc.Data)) > 0 && !bytes.Equal(bytes.TrimSpace(doc.Data), []byte("null"))
	switch {
	case doc.EncryptedData == "" && !hasPlain:
		return ErrEmptyPayload
	case doc.EncryptedData != "" && hasPlain:
		return ErrAmbiguousPayload
	case hasPlain:
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &obj); err != nil {
			return ErrInvalidPlainData
		}
	}
	return nil
}

// validateBatchWrite checks size, declared length and every document.
// Default fields: documents and length.
func (v *DocumentValidator) validateBatchWrite(ctx context.Context, req models.BatchWriteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDocuments, FieldLength}
	}

	for _, f := range fields {
		switch f {
		case FieldDocuments:
			if len(req.Documents) == 0 {
				return ErrEmptyDocuments
			}
			if len(req.Documents) > models.MaxBatchSize {
				return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.Documents), models.MaxBatchSize)
			}
			seen := make(map[string]struct{}, len(req.Documents))
			for i, doc := range req.Documents {
				if err := v.validateDocument(ctx, doc); err != nil {
					return fmt.Errorf("documents[%d]: %w", i, err)
				}
				if _, dup := seen[doc.ID]; dup {
					return fmt.Errorf("%w: %q", ErrDuplicateDocumentID, doc.ID)
				}
				seen[doc.ID] = struct{}{}
			}
		case FieldLength:
			if req.Length != len(req.Documents) {
				return fmt.Errorf("%w: declared %d, got %d", ErrBatchLengthMismatch, req.Length, len(req.Documents))
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *DocumentValidator) validateBatchDelete(_ context.Context, req models.BatchDeleteRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIDs}
	}

	for _, f := range fields {
		switch f {
		case FieldIDs:
			if len(req.IDs) == 0 {
				return ErrEmptyIDs
			}
			if len(req.IDs) > models.MaxBatchSize {
				return fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(req.IDs), models.MaxBatchSize)
			}
			for _, id := range req.IDs {
				if err := ValidateDocumentID(id); err != nil {
					return err
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
