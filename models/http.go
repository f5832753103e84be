// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// MaxBatchSize is the hard per-batch document limit of the document store.
const MaxBatchSize = 500

// AnonymousAuthResponse is returned by POST /api/auth/anonymous. The bearer
// token travels in the Authorization header.
type AnonymousAuthResponse struct {
	UserID        string `json:"userId"`
	RefreshSecret string `json:"refreshSecret"`
}

// TokenRequest exchanges a refresh secret for a fresh bearer token.
type TokenRequest struct {
	UserID        string `json:"userId"`
	RefreshSecret string `json:"refreshSecret"`
}

// BatchWriteRequest writes up to MaxBatchSize documents of one collection.
//
// Length must equal len(Documents) so a truncated body is rejected. Body
// integrity is covered by the HashSHA256 header.
type BatchWriteRequest struct {
	Documents []Document `json:"documents"`
	Merge     bool       `json:"merge"`
	Length    int        `json:"length"`
}

// BatchWriteResponse echoes the stored documents with server fields filled.
type BatchWriteResponse struct {
	Documents []Document `json:"documents"`
}

// BatchDeleteRequest removes documents by id from one collection.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// BatchDeleteResponse reports how many of the requested ids existed.
type BatchDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// CollectionResponse lists a collection.
type CollectionResponse struct {
	Documents []Document `json:"documents"`
	Length    int        `json:"length"`
}

// ErrorResponse is the JSON body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
