// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"io"
	"net/http"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
)

const hashHeader = "HashSHA256"

// bodyHashing checks the HashSHA256 header against the HMAC of the raw
// request body. Without a configured hash key it passes everything through.
func (h *Handler) bodyHashing(next http.Handler) http.Handler {
	if h.hasher == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		log.Debug().Str("func", "*Handler.bodyHashing").Msg("checking hash begins")

		hashFromRequest := r.Header.Get(hashHeader)
		if hashFromRequest == "" {
			log.Error().Str("func", "*Handler.bodyHashing").Msg("missing hash header")
			utils.WriteError(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		// read bytes from body
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			log.Err(err).Str("func", "*Handler.bodyHashing").Msg("failed to read request body")
			utils.WriteError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		if !h.hasher.Verify(body, hashFromRequest) {
			log.Error().Str("func", "*Handler.bodyHashing").
				Str("hash from request", hashFromRequest).
				Str("hashed body", h.hasher.HashHex(body)).
				Msg("hashes are not equal")
			utils.WriteError(w, "Integrity check failed", http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
