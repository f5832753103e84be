// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-ledger-sync/internal/app"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
)

// ErrMissingServices is returned by New when a required service is nil.
var ErrMissingServices = errors.New("tui: client services are not configured")

// userMessage turns err into text for the status line.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	var syncErr *service.SyncError
	if errors.As(err, &syncErr) && syncErr.Message != "" {
		return syncErr.Message
	}
	if errors.Is(err, service.ErrSyncInProgress) {
		return app.MsgSyncInProgress
	}
	if errors.Is(err, service.ErrNoIdentity) {
		return "Sync once before showing the recovery key."
	}
	if errors.Is(err, service.ErrInvalidPairingCode) {
		return "That recovery key is not valid. Copy it again from the other device."
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return app.MsgSyncNetwork
	}

	return err.Error()
}
