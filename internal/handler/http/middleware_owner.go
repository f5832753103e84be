// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
)

// ownerOnly lets a request through only when the {uid} path segment is the
// authenticated user. It must run after auth.
func (h *Handler) ownerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			log.Error().Msg("no authenticated user in context")
			utils.WriteError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if owner := chi.URLParam(r, "uid"); owner != userID {
			log.Warn().Str("user_id", userID).Str("path_user_id", owner).Msg("access to another user's data")
			utils.WriteError(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
