// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecryptionFailed is the only error Decrypt returns for bad input.
	ErrDecryptionFailed = errors.New("decryption failed")
	// ErrInvalidKey is returned when a key has the wrong length.
	ErrInvalidKey = errors.New("invalid encryption key")
	// ErrInvalidRecoveryKey is returned by ImportKey for a malformed
	// recovery string.
	ErrInvalidRecoveryKey = errors.New("invalid recovery key")
)
