// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidCollection   = errors.New("invalid collection")
	ErrInvalidDocumentID   = errors.New("invalid document id")
	ErrInvalidDeviceID     = errors.New("invalid device id")
	ErrEmptyPayload        = errors.New("document has neither encrypted nor plain data")
	ErrAmbiguousPayload    = errors.New("document has both encrypted and plain data")
	ErrInvalidPlainData    = errors.New("plain data must be a JSON object")
	ErrInvalidVersion      = errors.New("invalid document version")
	ErrEmptyDocuments      = errors.New("documents list cannot be empty")
	ErrBatchTooLarge       = errors.New("batch exceeds the maximum size")
	ErrBatchLengthMismatch = errors.New("batch length does not match documents")
	ErrDuplicateDocumentID = errors.New("duplicate document id in batch")
	ErrEmptyIDs            = errors.New("IDs list cannot be empty")
)
