// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// ledger-sync server handlers and the client sync services.
//
// Msg* constants are written into HTTP response bodies by the server.
// MsgSync* constants are the human-readable texts the client shows for a
// failed sync; raw error detail only goes to the log.
package app

// Server response messages.
const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgServiceUnavailable is returned when the database is temporarily
	// unreachable.
	MsgServiceUnavailable = "service temporarily unavailable"

	// MsgTokenIsExpiredOrInvalid is returned when a bearer token is missing,
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInvalidRefreshSecret is returned when a token exchange presents an
	// unknown user id or a wrong refresh secret.
	MsgInvalidRefreshSecret = "invalid refresh secret"

	// MsgNoUserIDProvided is returned when a handler requires the user id
	// from the token and none is present in the request context.
	MsgNoUserIDProvided = "no user ID provided"

	// MsgAccessDenied is returned when the token subject does not own the
	// requested path.
	MsgAccessDenied = "access to another user's data is denied"

	MsgInvalidCollection = "invalid collection"
	MsgDocumentNotFound  = "document was not found"
	MsgRevisionConflict  = "revision conflict"

	// MsgInvalidRevision is returned for an If-Match header that is not a
	// non-negative integer.
	MsgInvalidRevision = "invalid If-Match revision"

	// MsgBatchTooLarge is returned for batches above the hard limit.
	MsgBatchTooLarge = "batch exceeds the maximum size"

	// MsgBatchLengthMismatch is returned when the declared length does not
	// match the number of documents.
	MsgBatchLengthMismatch = "batch length does not match documents"

	// MsgHashMismatch is returned when the HashSHA256 header does not match
	// the request body.
	MsgHashMismatch = "body hash mismatch"

	// MsgEmptyDocumentID is returned when a batch contains a document
	// without an id.
	MsgEmptyDocumentID = "document id is empty"
)

// Client sync messages.
const (
	MsgSyncAuthentication = "Could not sign in to cloud backup. Check your connection and try again."
	MsgSyncNetwork        = "Cloud backup is unreachable. Your data is safe on this device and sync will retry automatically."
	MsgSyncEncryption     = "The cloud backup was made with a different key. Import the recovery key from your other device."
	MsgSyncValidation     = "Local data failed validation and was not uploaded."
	MsgSyncIncomplete     = "Another device is still uploading a backup. Try again in a moment."
	MsgSyncRemoteChanged  = "The cloud backup changed during sync. Sync again to get the latest version."
	MsgSyncNoBackup       = "There is no cloud backup to restore yet."
	MsgSyncInProgress     = "A sync is already running."
	MsgSyncFailed         = "Sync failed. It will be retried automatically."
)
