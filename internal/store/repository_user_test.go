// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &DB{
		DB:                 conn,
		logger:             logger.Nop(),
		errorClassificator: NewPostgresErrorClassifier(),
		dialect:            dialectPostgres,
	}, mock
}

func newTestUserRepo(t *testing.T) (*userRepository, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &userRepository{db: db, logger: db.logger}, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestCreateUser_Success(t *testing.T) {
	repo, mock := newTestUserRepo(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("u-1", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "secret_hash", "created_at"}).
			AddRow("u-1", "hash", now))

	created, err := repo.CreateUser(context.Background(), models.User{UserID: "u-1", SecretHash: "hash"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", created.UserID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_UniqueViolation(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.UniqueViolation))

	_, err := repo.CreateUser(context.Background(), models.User{UserID: "u-1"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestCreateUser_RetryableError(t *testing.T) {
	repo, mock := newTestUserRepo(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(pgError(pgerrcode.AdminShutdown))

	_, err := repo.CreateUser(context.Background(), models.User{UserID: "u-1"})
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestFindUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT user_id, secret_hash, created_at FROM users WHERE user_id = \\$1").
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows([]string{"user_id", "secret_hash", "created_at"}).
				AddRow("u-1", "hash", time.Now()))

		user, err := repo.FindUserByID(context.Background(), "u-1")
		require.NoError(t, err)
		assert.Equal(t, "hash", user.SecretHash)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT").WillReturnError(sql.ErrNoRows)

		_, err := repo.FindUserByID(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNoUserWasFound)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newTestUserRepo(t)
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

		_, err := repo.FindUserByID(context.Background(), "u-1")
		assert.ErrorIs(t, err, ErrExecutingQuery)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
	})
}
