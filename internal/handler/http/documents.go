// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/store"
	"github.com/MKhiriev/go-ledger-sync/internal/utils"
	"github.com/MKhiriev/go-ledger-sync/models"
)

// maxBodyBytes caps request bodies. A full batch of encrypted
// transactions stays well below it.
const maxBodyBytes = 32 << 20

// location holds the path parameters of a document route.
type location struct {
	userID     string
	collection string
	docID      string
}

func locationFromRequest(r *http.Request) location {
	return location{
		userID:     chi.URLParam(r, "uid"),
		collection: chi.URLParam(r, "collection"),
		docID:      chi.URLParam(r, "docID"),
	}
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	doc, err := h.services.DocumentService.Get(r.Context(), loc.userID, loc.collection, loc.docID)
	if err != nil {
		writeServiceError(w, log, err, "error reading document")
		return
	}

	utils.WriteJSON(w, doc, http.StatusOK)
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	docs, err := h.services.DocumentService.List(r.Context(), loc.userID, loc.collection)
	if err != nil {
		writeServiceError(w, log, err, "error listing collection")
		return
	}
	if docs == nil {
		docs = []models.Document{}
	}

	utils.WriteJSON(w, models.CollectionResponse{Documents: docs, Length: len(docs)}, http.StatusOK)
}

// putDocument creates or replaces one document. ?merge=true merges into
// the stored document; an If-Match header holding a revision turns the
// write into a check-and-set.
func (h *Handler) putDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	var doc models.Document
	if !decodeBody(w, r, &doc) {
		return
	}
	if doc.ID != "" && doc.ID != loc.docID {
		utils.WriteError(w, "document id does not match the path", http.StatusBadRequest)
		return
	}
	doc.ID = loc.docID

	opts, err := putOptionsFromRequest(r)
	if err != nil {
		log.Warn().Err(err).Str("func", "*Handler.putDocument").Msg("invalid write options")
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.services.DocumentService.Put(r.Context(), loc.userID, loc.collection, doc, opts)
	if err != nil {
		writeServiceError(w, log, err, "error writing document")
		return
	}

	utils.WriteJSON(w, stored, http.StatusOK)
}

func putOptionsFromRequest(r *http.Request) (store.PutOptions, error) {
	var opts store.PutOptions

	if raw := r.URL.Query().Get("merge"); raw != "" {
		merge, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, errors.New("merge must be a boolean")
		}
		opts.Merge = merge
	}

	if raw := r.Header.Get("If-Match"); raw != "" {
		revision, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || revision < 0 {
			return opts, errors.New("If-Match must be a document revision")
		}
		opts.ExpectedRevision = &revision
	}

	return opts, nil
}

func (h *Handler) putBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	var req models.BatchWriteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	stored, err := h.services.DocumentService.PutBatch(r.Context(), loc.userID, loc.collection, req)
	if err != nil {
		writeServiceError(w, log, err, "error writing batch")
		return
	}

	log.Debug().Str("collection", loc.collection).Int("documents", len(stored)).Msg("batch stored")
	utils.WriteJSON(w, models.BatchWriteResponse{Documents: stored}, http.StatusOK)
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	if err := h.services.DocumentService.Delete(r.Context(), loc.userID, loc.collection, loc.docID); err != nil {
		writeServiceError(w, log, err, "error deleting document")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	var req models.BatchDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	deleted, err := h.services.DocumentService.DeleteBatch(r.Context(), loc.userID, loc.collection, req.IDs)
	if err != nil {
		writeServiceError(w, log, err, "error deleting batch")
		return
	}

	utils.WriteJSON(w, models.BatchDeleteResponse{Deleted: deleted}, http.StatusOK)
}

// decodeBody decodes the JSON body into v. On failure it answers 400, or
// 413 when the body is larger than maxBodyBytes, and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	logger.FromRequest(r).Err(err).Msg("Invalid JSON was passed")

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.WriteError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	utils.WriteError(w, "Invalid JSON was passed", http.StatusBadRequest)
	return false
}
