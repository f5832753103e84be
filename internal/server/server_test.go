// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-ledger-sync/internal/config"
	"github.com/MKhiriev/go-ledger-sync/internal/handler"
	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

func TestNewServer_NothingToRun(t *testing.T) {
	_, err := NewServer(&handler.Handlers{}, &config.ServerConfig{}, logger.Nop())
	assert.ErrorIs(t, err, errNoServersAreCreated)
}

func TestNewHTTPServer_AddressInUse(t *testing.T) {
	first, err := newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	defer first.listener.Close()

	_, err = newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: first.listener.Addr().String()}, logger.Nop())
	assert.Error(t, err)
}

func TestServer_RunsUntilContextIsDone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "1.2.3")
	})

	httpSrv, err := newHTTPServer(mux, config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	srv := &server{httpServer: httpSrv, logger: logger.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunServer(ctx) }()

	url := "http://" + httpSrv.listener.Addr().String() + "/api/version"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "1.2.3"
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestServer_TransportExitStopsServer(t *testing.T) {
	httpSrv, err := newHTTPServer(http.NotFoundHandler(), config.Server{HTTPAddress: "127.0.0.1:0"}, logger.Nop())
	require.NoError(t, err)
	srv := &server{httpServer: httpSrv, logger: logger.Nop()}

	done := make(chan error, 1)
	go func() { done <- srv.RunServer(context.Background()) }()

	url := "http://" + httpSrv.listener.Addr().String() + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	// closing behind RunServer's back makes Serve return without an error
	require.NoError(t, httpSrv.server.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, errTransportStopped)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
