// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = GetUserIDFromContext(WithUserID(context.Background(), ""))
	assert.False(t, ok)

	id, ok := GetUserIDFromContext(WithUserID(context.Background(), "u-1"))
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)

	assert.Equal(t, "userID", UserIDCtxKey.String())
}

func TestWriteJSON_StatusAndErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	_, err := WriteJSON(rec, map[string]string{"status": "ok"}, 201)
	require.NoError(t, err)
	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	_, err = WriteJSON(rec, make(chan int), 200)
	assert.Error(t, err)
	assert.Equal(t, 500, rec.Code)

	rec = httptest.NewRecorder()
	WriteError(rec, "nope", 404)
	assert.JSONEq(t, `{"error":"nope"}`, rec.Body.String())
}

func TestNewHTTPClient_Defaults(t *testing.T) {
	c := NewHTTPClient("http://example.invalid", 3*time.Second)
	require.NotNil(t, c.Client)
	assert.Equal(t, "http://example.invalid", c.BaseURL)
	assert.Equal(t, "application/json", c.Header.Get("Accept"))
}

func TestUUIDGenerator_Unique(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)

	s, err := RandomSecret(32)
	require.NoError(t, err)
	assert.Len(t, s, 43)
}
