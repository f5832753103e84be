// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
	"github.com/MKhiriev/go-ledger-sync/internal/mock"
	"github.com/MKhiriev/go-ledger-sync/internal/service"
)

func startHealthServer(t *testing.T, h *Handler) healthpb.HealthClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	h.Register(srv)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func TestHandler_Probe(t *testing.T) {
	ctrl := gomock.NewController(t)
	check := mock.NewMockHealthService(ctrl)
	h := NewHandler(&service.Services{HealthService: check}, logger.Nop())
	client := startHealthServer(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	statusOf := func(name string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: name})
		require.NoError(t, err)
		return resp.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(ServiceName))

	check.EXPECT().Check(gomock.Any()).Return(nil)
	h.Probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, statusOf(""))

	check.EXPECT().Check(gomock.Any()).Return(service.ErrNotReady)
	h.Probe(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, statusOf(ServiceName))
}

func TestHandler_WatchStopsWithContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	check := mock.NewMockHealthService(ctrl)
	check.EXPECT().Check(gomock.Any()).Return(nil).MinTimes(1)

	h := NewHandler(&service.Services{HealthService: check}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Watch(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return ctrl.Satisfied() }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return")
	}
}
