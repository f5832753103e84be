// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)

	router.Get("/api/version", h.getServerVersion)
	router.Get("/api/health", h.health)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Use(withGZip, h.withTimeout)
		r.Post("/api/auth/anonymous", h.signInAnonymously)
		r.Post("/api/auth/token", h.exchangeToken)
	})

	router.Route("/api/users/{uid}/{collection}", func(r chi.Router) {
		r.Use(h.auth, h.ownerOnly)

		// long-lived; no compression or timeout
		r.Get("/subscribe", h.subscribe)

		r.Group(func(r chi.Router) {
			r.Use(withGZip, h.withTimeout)

			r.Get("/", h.listDocuments)
			r.With(h.bodyHashing).Post("/batch", h.putBatch)
			r.Post("/delete", h.deleteBatch)

			r.Get("/{docID}", h.getDocument)
			r.Put("/{docID}", h.putDocument)
			r.Delete("/{docID}", h.deleteDocument)
		})
	})

	router.MethodNotAllowed(notFound)
	router.NotFound(notFound)

	return router
}

// withTimeout bounds the request context by the configured request timeout.
func (h *Handler) withTimeout(next http.Handler) http.Handler {
	if h.requestTimeout <= 0 {
		return next
	}
	return middleware.Timeout(h.requestTimeout)(next)
}
