// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-ledger-sync/models"
)

func TestSubscribe_StreamsChanges(t *testing.T) {
	h, m := newTestHandler(t, nil)
	m.signedIn()

	changes := make(chan models.DocumentChange, 1)
	cancelled := make(chan struct{})
	m.docs.EXPECT().Subscribe(gomock.Any(), testUserID, "transactions").
		Return((<-chan models.DocumentChange)(changes), func() { close(cancelled) })

	srv := httptest.NewServer(h.Init())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/users/u-1/transactions/subscribe"
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + testToken}},
	})
	require.NoError(t, err)

	want := models.DocumentChange{
		Type:       models.ChangeUpsert,
		UserID:     testUserID,
		Collection: "transactions",
		Document:   storedDoc("t-1", 2),
	}
	changes <- want

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var got models.DocumentChange
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.Document.ID, got.Document.ID)
	assert.Equal(t, want.Document.Revision, got.Document.Revision)

	// the service closes the stream once the subscription ends
	close(changes)
	_, _, err = conn.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))

	select {
	case <-cancelled:
	case <-ctx.Done():
		t.Fatal("subscription was not cancelled")
	}
}

func TestSubscribe_RejectsForeignCollection(t *testing.T) {
	h, m := newTestHandler(t, nil)
	m.signedIn()

	srv := httptest.NewServer(h.Init())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/users/u-2/transactions/subscribe"
	_, resp, err := websocket.Dial(ctx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"Authorization": []string{"Bearer " + testToken}},
	})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
