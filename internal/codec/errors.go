// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package codec

import "errors"

var (
	// ErrMalformedDocument is returned for input that is not a JSON object
	// of the expected shape, or lacks the version field.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrUnsupportedVersion is returned when the major schema version
	// differs from the one this build understands.
	ErrUnsupportedVersion = errors.New("unsupported dataset version")
	// ErrMissingField is returned by the typed record decoders when a
	// required field is absent.
	ErrMissingField = errors.New("required field is missing")
	// ErrInvalidDataset is returned by Validate.
	ErrInvalidDataset = errors.New("invalid dataset")
)
