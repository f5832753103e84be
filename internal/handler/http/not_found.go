// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
)

// notFound answers unknown paths, and known paths with an unsupported
// method, with a JSON 404. Answering 405 would reveal which methods
// a path accepts.
func notFound(w http.ResponseWriter, r *http.Request) {
	logger.FromRequest(r).Debug().
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("no route")

	utils.WriteError(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
}
