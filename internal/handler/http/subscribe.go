// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/MKhiriev/go-ledger-sync/internal/logger"
)

const subscribeWriteTimeout = 5 * time.Second

// subscribe upgrades to a websocket and pushes one JSON-encoded
// models.DocumentChange per text message until the client goes away.
// Messages from the client are ignored.
func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	loc := locationFromRequest(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	// CloseRead discards incoming frames and cancels ctx once the peer
	// closes the connection.
	ctx := conn.CloseRead(r.Context())

	changes, cancel := h.services.DocumentService.Subscribe(ctx, loc.userID, loc.collection)
	defer cancel()

	log.Debug().Str("collection", loc.collection).Msg("subscriber connected")

	for change := range changes {
		data, err := json.Marshal(change)
		if err != nil {
			log.Err(err).Msg("error encoding change")
			continue
		}

		writeCtx, done := context.WithTimeout(ctx, subscribeWriteTimeout)
		err = conn.Write(writeCtx, websocket.MessageText, data)
		done()
		if err != nil {
			log.Debug().Err(err).Msg("subscriber gone")
			return
		}
	}

	conn.Close(websocket.StatusNormalClosure, "")
}
