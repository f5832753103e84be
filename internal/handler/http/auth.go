// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// signInAnonymously registers a new anonymous user. The refresh secret is
// returned once, in the body; the bearer token travels in the
// Authorization header.
func (h *Handler) signInAnonymously(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	resp, token, err := h.services.AuthService.SignInAnonymously(r.Context())
	if err != nil {
		writeServiceError(w, log, err, "anonymous sign-in failed")
		return
	}

	log.Debug().Str("user_id", resp.UserID).Msg("anonymous user signed in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	if _, err = utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Msg("error writing sign-in response")
	}
}

func (h *Handler) exchangeToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token, err := h.services.AuthService.ExchangeToken(r.Context(), req)
	if err != nil {
		writeServiceError(w, log, err, "token exchange failed")
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}
