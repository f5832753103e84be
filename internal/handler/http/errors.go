// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Errors returned by the auth middleware for a malformed "Authorization"
// header. All of them answer 401.
var (
	// ErrEmptyAuthorizationHeader means the header is absent.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader means the header has no token part.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrUnsupportedAuthScheme means the scheme is not Bearer. Identity
	// tokens are the only credential the store accepts.
	ErrUnsupportedAuthScheme = errors.New("unsupported `Authorization` scheme")

	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)
