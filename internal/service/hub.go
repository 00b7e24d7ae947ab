// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/store"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/models"
)

// DefaultSessionBuffer is how many undelivered messages a session holds
// before new ones are dropped.
const DefaultSessionBuffer = 64

// Session is one open realtime stream of a client for one entity kind.
type Session struct {
	ID       string
	Kind     string
	ClientID string

	send chan models.StreamMessage
	// subscriptions is guarded by Hub.mu
	subscriptions map[string]models.Request[string]
}

// Messages delivers the updates matching the session's subscriptions. The
// channel is closed when the session is closed.
func (s *Session) Messages() <-chan models.StreamMessage {
	return s.send
}

// Hub fans committed changes out to realtime sessions. It implements
// [Publisher].
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ids      *utils.UUIDGenerator
	buffer   int

	logger *logger.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		ids:      utils.NewUUIDGenerator(),
		buffer:   DefaultSessionBuffer,
		logger:   logger,
	}
}

// Open registers a new session with no subscriptions.
func (h *Hub) Open(kind, clientID string) *Session {
	s := &Session{
		ID:            h.ids.Generate(),
		Kind:          kind,
		ClientID:      clientID,
		send:          make(chan models.StreamMessage, h.buffer),
		subscriptions: make(map[string]models.Request[string]),
	}

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	h.logger.Debug().Str("session", s.ID).Str("kind", kind).Str("client", clientID).Msg("realtime session opened")
	return s
}

// Close removes the session and closes its message channel. Closing an
// unknown session does nothing.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	s, ok := h.sessions[sessionID]
	if ok {
		delete(h.sessions, sessionID)
		close(s.send)
	}
	h.mu.Unlock()

	if ok {
		h.logger.Debug().Str("session", sessionID).Msg("realtime session closed")
	}
}

// CloseAll closes every session. Streams see their channel closed and
// end.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	n := len(h.sessions)
	for id, s := range h.sessions {
		delete(h.sessions, id)
		close(s.send)
	}
	h.mu.Unlock()

	h.logger.Info().Int("sessions", n).Msg("realtime sessions closed")
}

// Subscribe adds req to the session. Only the client owning the session
// may change it. The ids in req are canonical.
func (h *Hub) Subscribe(sessionID, clientID string, req models.Request[string]) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.owned(sessionID, clientID)
	if err != nil {
		return err
	}
	s.subscriptions[req.Fingerprint()] = req
	return nil
}

// Unsubscribe removes req from the session.
func (h *Hub) Unsubscribe(sessionID, clientID string, req models.Request[string]) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	s, err := h.owned(sessionID, clientID)
	if err != nil {
		return err
	}
	delete(s.subscriptions, req.Fingerprint())
	return nil
}

// Subscriptions returns the requests registered for the session.
func (h *Hub) Subscriptions(sessionID string) []models.Request[string] {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s, ok := h.sessions[sessionID]
	if !ok {
		return nil
	}
	out := make([]models.Request[string], 0, len(s.subscriptions))
	for _, fp := range sortedIDs(s.subscriptions) {
		out = append(out, s.subscriptions[fp])
	}
	return out
}

// PublishUpsert sends each session of kind the entities its subscriptions
// select.
func (h *Hub) PublishUpsert(kind string, entities []store.RawEntity) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sessions {
		if s.Kind != kind {
			continue
		}
		var payloads []json.RawMessage
		for _, e := range entities {
			if s.wants(e.ID) {
				payloads = append(payloads, e.Payload)
			}
		}
		if len(payloads) > 0 {
			h.deliver(s, models.StreamMessage{Type: models.StreamUpsert, Entities: payloads})
		}
	}
}

// PublishDelete sends each session of kind the deleted ids its
// subscriptions select.
func (h *Hub) PublishDelete(kind string, ids []string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, s := range h.sessions {
		if s.Kind != kind {
			continue
		}
		var selected []json.RawMessage
		for _, id := range ids {
			if s.wants(id) {
				selected = append(selected, json.RawMessage(id))
			}
		}
		if len(selected) > 0 {
			h.deliver(s, models.StreamMessage{Type: models.StreamDelete, IDs: selected})
		}
	}
}

// deliver must be called with h.mu held.
func (h *Hub) deliver(s *Session, msg models.StreamMessage) {
	select {
	case s.send <- msg:
	default:
		h.logger.Warn().Str("session", s.ID).Str("type", string(msg.Type)).Msg("session buffer full, update dropped")
	}
}

// owned must be called with h.mu held.
func (h *Hub) owned(sessionID, clientID string) (*Session, error) {
	s, ok := h.sessions[sessionID]
	if !ok || s.ClientID != clientID {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSession, sessionID)
	}
	return s, nil
}

func (s *Session) wants(id string) bool {
	for _, req := range s.subscriptions {
		if req.Contains(id) {
			return true
		}
	}
	return false
}
