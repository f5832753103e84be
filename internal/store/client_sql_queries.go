// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

const (
	selectAllTransactions = `
		SELECT id, amount, category, note, date, created_at
		FROM transactions
		ORDER BY position, id;`

	insertTransaction = `
		INSERT INTO transactions (id, position, amount, category, note, date, created_at)
		VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM transactions), ?, ?, ?, ?, ?);`

	insertTransactionAt = `
		INSERT INTO transactions (id, position, amount, category, note, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?);`

	updateTransaction = `
		UPDATE transactions
		SET amount = ?, category = ?, note = ?, date = ?, created_at = ?
		WHERE id = ?;`

	deleteTransaction = `DELETE FROM transactions WHERE id = ?;`

	deleteAllTransactions = `DELETE FROM transactions;`

	selectSettings = `SELECT body FROM settings WHERE id = 1;`

	upsertSettings = `
		INSERT INTO settings (id, body) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body;`

	selectGamification = `SELECT body FROM gamification WHERE id = 1;`

	upsertGamification = `
		INSERT INTO gamification (id, body) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body;`

	deleteGamification = `DELETE FROM gamification;`

	selectKV = `SELECT value FROM kv WHERE key = ?;`

	upsertKV = `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`

	deleteKV = `DELETE FROM kv WHERE key = ?;`

	insertSyncOperation = `
		INSERT INTO sync_queue (type, error_message, enqueued_at)
		VALUES (?, ?, ?);`

	trimSyncQueue = `
		DELETE FROM sync_queue
		WHERE id NOT IN (SELECT id FROM sync_queue ORDER BY id DESC LIMIT ?);`

	selectSyncQueue = `
		SELECT id, type, error_message, enqueued_at
		FROM sync_queue
		ORDER BY id;`

	deleteSyncQueue = `DELETE FROM sync_queue;`

	deleteSyncQueueByType = `DELETE FROM sync_queue WHERE type = ?;`

	countSyncQueue = `SELECT COUNT(*) FROM sync_queue;`
)

// kv keys.
const (
	kvDeviceID     = "device_id"
	kvIdentity     = "identity"
	kvSyncMetadata = "sync_metadata"
)
