// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWTToken("ledger-sync", "user-1", time.Hour, "sign")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := ValidateAndParseJWTToken(token.SignedString, "sign", "ledger-sync")
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID)
	assert.Equal(t, token.SignedString, parsed.String())
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	cases := []struct {
		issuer, user, key string
		d                 time.Duration
	}{
		{"", "u", "k", time.Hour},
		{"i", "", "k", time.Hour},
		{"i", "u", "", time.Hour},
		{"i", "u", "k", 0},
	}
	for _, c := range cases {
		_, err := GenerateJWTToken(c.issuer, c.user, c.d, c.key)
		assert.Error(t, err)
	}
}

func TestValidateAndParseJWTToken_Rejects(t *testing.T) {
	valid, err := GenerateJWTToken("ledger-sync", "user-1", time.Hour, "sign")
	require.NoError(t, err)
	expired, err := GenerateJWTToken("ledger-sync", "user-1", time.Nanosecond, "sign")
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	tests := []struct {
		name, token, key, issuer string
	}{
		{name: "wrong key", token: valid.SignedString, key: "other", issuer: "ledger-sync"},
		{name: "wrong issuer", token: valid.SignedString, key: "sign", issuer: "someone-else"},
		{name: "expired", token: expired.SignedString, key: "sign", issuer: "ledger-sync"},
		{name: "garbage", token: "a.b.c", key: "sign", issuer: "ledger-sync"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer)
			assert.Error(t, err)
		})
	}
}

func TestParseBearerToken(t *testing.T) {
	tok, err := ParseBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", tok)

	tok, err = ParseBearerToken("  bearer   xyz ")
	require.NoError(t, err)
	assert.Equal(t, "xyz", tok)

	for _, bad := range []string{"", "Bearer", "Bearer ", "Basic abc", "abc"} {
		_, err := ParseBearerToken(bad)
		assert.Error(t, err, bad)
	}
}

func TestExpiryFromJWT(t *testing.T) {
	token, err := GenerateJWTToken("ledger-sync", "u", 30*time.Minute, "k")
	require.NoError(t, err)

	exp, err := ExpiryFromJWT(token.SignedString)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), exp, 5*time.Second)

	_, err = ExpiryFromJWT("not-a-jwt")
	assert.Error(t, err)
}
