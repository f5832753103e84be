// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	keyFileVersion    = 1
	recoveryPrefix    = "lsk1"
	dataKeyInfo       = "ledger-sync/data/v1"
	fingerprintLength = 16
)

// keyFile is the on-disk form of the installation secret.
type keyFile struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Secret    string    `json:"secret"`
}

// fileKeyStore is the private implementation of [KeyStore]. An empty path
// keeps the secret in memory only.
type fileKeyStore struct {
	mu     sync.Mutex
	path   string
	random io.Reader
	now    func() time.Time

	secret  []byte
	dataKey []byte
}

// NewFileKeyStore returns a [KeyStore] that persists the installation
// secret at path with 0600 permissions.
func NewFileKeyStore(path string) KeyStore {
	return &fileKeyStore{path: path, random: rand.Reader, now: time.Now}
}

// NewMemoryKeyStore returns a [KeyStore] holding secret in memory. A nil
// secret is generated on first use.
func NewMemoryKeyStore(secret []byte) KeyStore {
	return &fileKeyStore{secret: secret, random: rand.Reader, now: time.Now}
}

// DataKey implements [KeyStore].
func (s *fileKeyStore) DataKey(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.loadLocked(); err != nil {
		return nil, err
	}
	return s.dataKey, nil
}

// Fingerprint implements [KeyStore].
func (s *fileKeyStore) Fingerprint(ctx context.Context) (string, error) {
	key, err := s.DataKey(ctx)
	if err != nil {
		return "", err
	}
	return Fingerprint(key), nil
}

// ExportKey implements [KeyStore]. Format: lsk1.<base64url secret>.<check>.
func (s *fileKeyStore) ExportKey(ctx context.Context) (string, error) {
	if _, err := s.DataKey(ctx); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join([]string{
		recoveryPrefix,
		base64.RawURLEncoding.EncodeToString(s.secret),
		checksum(s.secret),
	}, "."), nil
}

// ImportKey implements [KeyStore].
func (s *fileKeyStore) ImportKey(ctx context.Context, recovery string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	parts := strings.Split(strings.TrimSpace(recovery), ".")
	if len(parts) != 3 || parts[0] != recoveryPrefix {
		return fmt.Errorf("%w: unexpected format", ErrInvalidRecoveryKey)
	}
	secret, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil || len(secret) != KeySize {
		return fmt.Errorf("%w: bad secret", ErrInvalidRecoveryKey)
	}
	if checksum(secret) != parts[2] {
		return fmt.Errorf("%w: checksum mismatch", ErrInvalidRecoveryKey)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.persistLocked(secret, uuid.NewString()); err != nil {
		return err
	}
	return s.setSecretLocked(secret)
}

// Fingerprint returns the short public id of a data key.
func Fingerprint(dataKey []byte) string {
	sum := sha256.Sum256(dataKey)
	return hex.EncodeToString(sum[:])[:fingerprintLength]
}

// DeriveDataKey expands an installation secret into the record key.
func DeriveDataKey(secret []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(dataKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive data key: %w", err)
	}
	return key, nil
}

func (s *fileKeyStore) loadLocked() error {
	if s.dataKey != nil {
		return nil
	}
	if s.secret != nil {
		return s.setSecretLocked(s.secret)
	}

	if s.path != "" {
		secret, err := s.readLocked()
		if err == nil {
			return s.setSecretLocked(secret)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	secret, id, err := s.generateSecret()
	if err != nil {
		return err
	}
	if err = s.persistLocked(secret, id); err != nil {
		return err
	}
	return s.setSecretLocked(secret)
}

// generateSecret mixes CSPRNG output with a time-ordered UUID and the
// creation instant through HKDF-Extract.
func (s *fileKeyStore) generateSecret() ([]byte, string, error) {
	entropy := make([]byte, KeySize)
	if _, err := io.ReadFull(s.random, entropy); err != nil {
		return nil, "", fmt.Errorf("read entropy: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, "", fmt.Errorf("generate installation id: %w", err)
	}

	salt := make([]byte, 0, 16+8)
	salt = append(salt, id[:]...)
	salt = binary.BigEndian.AppendUint64(salt, uint64(s.now().UnixNano()))

	return hkdf.Extract(sha256.New, entropy, salt), id.String(), nil
}

func (s *fileKeyStore) setSecretLocked(secret []byte) error {
	key, err := DeriveDataKey(secret)
	if err != nil {
		return err
	}
	s.secret = secret
	s.dataKey = key
	return nil
}

func (s *fileKeyStore) readLocked() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var kf keyFile
	if err = json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse key file: %w", err)
	}
	if kf.Version != keyFileVersion {
		return nil, fmt.Errorf("unsupported key file version %d", kf.Version)
	}

	secret, err := base64.StdEncoding.DecodeString(kf.Secret)
	if err != nil || len(secret) != KeySize {
		return nil, fmt.Errorf("%w: key file is corrupt", ErrInvalidKey)
	}
	return secret, nil
}

// persistLocked writes the key file through a temp file and rename, so a
// crash never leaves a half-written secret behind.
func (s *fileKeyStore) persistLocked(secret []byte, id string) error {
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(keyFile{
		Version:   keyFileVersion,
		ID:        id,
		CreatedAt: s.now().UTC(),
		Secret:    base64.StdEncoding.EncodeToString(secret),
	})
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create key dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("install key file: %w", err)
	}
	return os.Chmod(s.path, 0o600)
}

func checksum(secret []byte) string {
	sum := sha256.Sum256(append([]byte(recoveryPrefix), secret...))
	return hex.EncodeToString(sum[:4])
}
