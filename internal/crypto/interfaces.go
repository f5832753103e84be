// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

import "context"

// Envelope seals individual records before they leave the device.
//
// The wire form of a sealed record is base64(nonce ‖ ciphertext ‖ tag).
// aad is bound to the ciphertext without being encrypted; callers pass the
// remote document path so a ciphertext moved to another path fails to open.
type Envelope interface {
	// Encrypt seals plaintext with key. key must be 32 bytes.
	Encrypt(plaintext, key, aad []byte) (string, error)

	// Decrypt opens a sealed record. A wrong key, a different aad, tampered
	// bytes or malformed base64 all yield ErrDecryptionFailed; Decrypt never
	// returns unauthenticated plaintext.
	Decrypt(sealed string, key, aad []byte) ([]byte, error)
}

// KeyStore owns the per-installation secret and the keys derived from it.
// The secret never leaves the device except through ExportKey.
type KeyStore interface {
	// DataKey returns the 32-byte record encryption key, creating and
	// persisting a fresh installation secret on first use.
	DataKey(ctx context.Context) ([]byte, error)

	// Fingerprint returns a short public identifier of the data key. Two
	// devices can decrypt each other's records iff fingerprints match.
	Fingerprint(ctx context.Context) (string, error)

	// ExportKey returns the installation secret as a recovery string for
	// pairing another device.
	ExportKey(ctx context.Context) (string, error)

	// ImportKey replaces the installation secret with the one encoded in a
	// recovery string produced by ExportKey.
	ImportKey(ctx context.Context, recovery string) error
}
