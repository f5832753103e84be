// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "errors"

// Sentinel errors returned by repository methods. Callers match them with
// [errors.Is].
var (
	// ErrUserAlreadyExists is returned when a generated user id collides
	// with an existing one.
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrNoUserWasFound is returned when no user matches the lookup.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrDocumentNotFound is returned when a document does not exist.
	ErrDocumentNotFound = errors.New("document was not found")

	// ErrRevisionConflict is returned by a check-and-set write whose expected
	// revision does not match the stored one.
	ErrRevisionConflict = errors.New("document revision conflict")

	// ErrStoreUnavailable wraps transient database failures (connection
	// loss, serialization failures) that are worth retrying.
	ErrStoreUnavailable = errors.New("store temporarily unavailable")

	// ErrNotFound is returned by local lookups of optional records
	// (settings, identity, metadata) that were never written.
	ErrNotFound = errors.New("record not found")
)

// Low-level database operation errors. These wrap failures that happen
// before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot build a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a query or statement fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when a transaction cannot start.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when a commit fails. The
	// transaction is rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
