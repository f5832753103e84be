// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrInvalidRefreshSecret    = errors.New("invalid refresh secret")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
	ErrNotReady              = errors.New("service is not ready")

	ErrValidationNoUserID = errors.New("no user ID was given")
)
