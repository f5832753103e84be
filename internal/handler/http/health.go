// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

// health answers 200 while the store is reachable and 503 otherwise.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.services.HealthService.Check(r.Context()); err != nil {
		writeServiceError(w, logger.FromRequest(r), err, "health check failed")
		return
	}
	w.WriteHeader(http.StatusOK)
}
