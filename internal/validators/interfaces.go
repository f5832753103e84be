// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks documents and batch requests before they reach
// the document store.
//
// A [Validator] accepts [models.Document], [models.BatchWriteRequest] and
// [models.BatchDeleteRequest] values. The optional field names (FieldID,
// FieldPayload and the rest) restrict a call to a subset of the rules, so a
// merge write can skip the payload check while a full write cannot.
package validators

import "context"

// Validator validates a value, optionally only the named fields. Failures
// wrap the sentinel errors of this package.
type Validator interface {
	Validate(ctx context.Context, value any, fields ...string) error
}
