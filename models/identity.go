// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Identity is the client-side anonymous session. RefreshSecret lets the
// client obtain new tokens for the same user id without re-registering.
type Identity struct {
	UserID        string    `json:"userId"`
	RefreshSecret string    `json:"refreshSecret"`
	Token         string    `json:"token,omitempty"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// Expired reports whether the token is absent or expires within skew.
func (i Identity) Expired(now time.Time, skew time.Duration) bool {
	return i.Token == "" || !now.Add(skew).Before(i.ExpiresAt)
}

// User is the server-side record of an anonymous identity.
type User struct {
	// UserID is the opaque user identifier (UUID string).
	UserID string `json:"user_id"`

	// SecretHash is the HMAC of the refresh secret. The secret itself is
	// never stored.
	SecretHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table associated with User.
func (u User) TableName() string {
	return "users"
}
