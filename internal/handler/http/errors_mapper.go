// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/internal/validators"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrValidationNoUserID:      http.StatusBadRequest,
	service.ErrInvalidRefreshSecret:    http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrNotReady:                http.StatusServiceUnavailable,

	validators.ErrInvalidCollection:   http.StatusBadRequest,
	validators.ErrInvalidDocumentID:   http.StatusBadRequest,
	validators.ErrInvalidDeviceID:     http.StatusBadRequest,
	validators.ErrEmptyPayload:        http.StatusBadRequest,
	validators.ErrAmbiguousPayload:    http.StatusBadRequest,
	validators.ErrInvalidPlainData:    http.StatusBadRequest,
	validators.ErrInvalidVersion:      http.StatusBadRequest,
	validators.ErrEmptyDocuments:      http.StatusBadRequest,
	validators.ErrBatchLengthMismatch: http.StatusBadRequest,
	validators.ErrDuplicateDocumentID: http.StatusBadRequest,
	validators.ErrEmptyIDs:            http.StatusBadRequest,
	validators.ErrBatchTooLarge:       http.StatusBadRequest,

	store.ErrNoUserWasFound:   http.StatusNotFound,
	store.ErrDocumentNotFound: http.StatusNotFound,
	store.ErrRevisionConflict: http.StatusConflict,
	store.ErrStoreUnavailable: http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,

	context.DeadlineExceeded: http.StatusGatewayTimeout,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status mapped from err. Client errors
// carry the error text, server errors only the status text.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error, msg string) {
	status := statusFromError(err)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg(msg)
		utils.WriteError(w, http.StatusText(status), status)
		return
	}

	log.Warn().Err(err).Int("status", status).Msg(msg)
	utils.WriteError(w, err.Error(), status)
}
