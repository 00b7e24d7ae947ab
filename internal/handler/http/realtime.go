// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/service"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/models"
	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
)

const streamWriteTimeout = 10 * time.Second

// stream upgrades to a websocket and forwards the messages of a new hub
// session until either side goes away. The first frame is a hello naming
// the session.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	clientID, _ := utils.GetClientIDFromContext(r.Context())
	kind := chi.URLParam(r, "kind")

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept has already written the response
		log.Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.CloseNow()

	session := h.services.Hub.Open(kind, clientID)
	defer h.services.Hub.Close(session.ID)

	// clients only send control frames; CloseRead answers pings
	ctx := conn.CloseRead(r.Context())

	hello := models.StreamMessage{Type: models.StreamHello, Session: session.ID}
	if err = writeFrame(ctx, conn, hello); err != nil {
		log.Err(err).Str("session", session.ID).Msg("error sending hello")
		return
	}

	log.Info().Str("session", session.ID).Str("kind", kind).Msg("realtime stream opened")

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("session", session.ID).Msg("realtime stream closed by client")
			return
		case msg, ok := <-session.Messages():
			if !ok {
				_ = conn.Close(websocket.StatusGoingAway, "session closed")
				return
			}
			if err = writeFrame(ctx, conn, msg); err != nil {
				log.Err(err).Str("session", session.ID).Msg("error writing realtime frame")
				return
			}
		}
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, msg models.StreamMessage) error {
	ctx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, msg)
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	h.changeSubscription(w, r, h.services.Hub.Subscribe)
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.changeSubscription(w, r, h.services.Hub.Unsubscribe)
}

func (h *Handler) changeSubscription(w http.ResponseWriter, r *http.Request, change func(sessionID, clientID string, req models.Request[string]) error) {
	clientID, _ := utils.GetClientIDFromContext(r.Context())
	sessionID := chi.URLParam(r, "session")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		fail(w, r, fmt.Errorf("%w: %w", service.ErrInvalidDataProvided, err), "error reading subscription body")
		return
	}

	req, err := service.ParseRequest(body)
	if err != nil {
		fail(w, r, err, "invalid subscription request")
		return
	}

	if err = change(sessionID, clientID, req); err != nil {
		fail(w, r, err, "subscription change rejected")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
