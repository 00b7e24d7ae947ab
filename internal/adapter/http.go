// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/internal/utils"
	"github.com/MKhiriev/go-gravity/models"
	"github.com/go-resty/resty/v2"
)

// HTTPDelegate implements [RemoteDelegate] against the reference server.
// Entities of one kind live under /api/entities/{kind}; realtime updates
// arrive over a WebSocket opened by Connect.
type HTTPDelegate[ID cmp.Ordered, E models.Entity[ID]] struct {
	client  *utils.HTTPClient
	baseURL string
	kind    string

	process func([]E, models.Request[ID]) []E

	mu       sync.RWMutex
	token    string
	onUpdate UpdateHandler[ID, E]
	stream   *stream
	dialing  bool

	logger *logger.Logger
}

// NewHTTPDelegate constructs an [HTTPDelegate] for entities of kind. It
// normalises the base URL from adapterCfg.HTTPAddress and configures the
// underlying HTTP client with the resolved base URL and request timeout.
//
// Returns [ErrInvalidAddress] (wrapped) if the address cannot be parsed.
func NewHTTPDelegate[ID cmp.Ordered, E models.Entity[ID]](kind string, adapterCfg config.ClientAdapter, logger *logger.Logger) (*HTTPDelegate[ID, E], error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	client := utils.NewHTTPClient(adapterCfg.RequestTimeout)
	client.SetBaseURL(baseURL)

	return &HTTPDelegate[ID, E]{
		client:  client,
		baseURL: baseURL,
		kind:    url.PathEscape(kind),
		token:   strings.TrimSpace(adapterCfg.Token),
		logger:  logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken stores the bearer token (whitespace-trimmed) used by every
// subsequent request.
func (h *HTTPDelegate[ID, E]) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token returns the bearer token currently in use.
func (h *HTTPDelegate[ID, E]) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SetProcess installs the read-result transform used by Process.
func (h *HTTPDelegate[ID, E]) SetProcess(fn func([]E, models.Request[ID]) []E) {
	h.process = fn
}

// SetUpdateHandler installs the receiver of realtime updates.
func (h *HTTPDelegate[ID, E]) SetUpdateHandler(fn UpdateHandler[ID, E]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUpdate = fn
}

// Pull implements [RemoteDelegate]. It POSTs req to
// POST /api/entities/{kind}/pull and decodes a [models.PullResponse].
func (h *HTTPDelegate[ID, E]) Pull(ctx context.Context, req models.Request[ID]) ([]E, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/entities/" + h.kind + "/pull")
	if err != nil {
		return nil, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var pr models.PullResponse[E]
	if err = json.Unmarshal(resp.Body(), &pr); err != nil {
		return nil, fmt.Errorf("decode pull response: %w", err)
	}

	return pr.Entities, nil
}

// Push implements [RemoteDelegate]. It PUTs the entities to
// PUT /api/entities/{kind}. An empty batch is not sent.
func (h *HTTPDelegate[ID, E]) Push(ctx context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PushRequest[E]{Entities: entities, Length: len(entities)}).
		Put("/api/entities/" + h.kind)
	if err != nil {
		return fmt.Errorf("push request: %w", err)
	}

	return mapHTTPError(resp)
}

// Pop implements [RemoteDelegate]. It POSTs the identifiers to
// POST /api/entities/{kind}/delete.
func (h *HTTPDelegate[ID, E]) Pop(ctx context.Context, entities []E) error {
	if len(entities) == 0 {
		return nil
	}

	ids := make([]ID, 0, len(entities))
	for _, e := range entities {
		ids = append(ids, e.EntityID())
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.PopRequest[ID]{IDs: ids, Length: len(ids)}).
		Post("/api/entities/" + h.kind + "/delete")
	if err != nil {
		return fmt.Errorf("pop request: %w", err)
	}

	return mapHTTPError(resp)
}

// Process implements [RemoteDelegate].
func (h *HTTPDelegate[ID, E]) Process(entities []E, req models.Request[ID]) []E {
	if h.process == nil {
		return entities
	}
	return h.process(entities, req)
}

// Subscribe implements [RemoteDelegate]. It registers req for the current
// stream session with POST /api/realtime/{kind}/sessions/{session}/subscriptions.
func (h *HTTPDelegate[ID, E]) Subscribe(ctx context.Context, req models.Request[ID]) bool {
	path, err := h.subscriptionsPath()
	if err != nil {
		return false
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(path)
	if err == nil {
		err = mapHTTPError(resp)
	}
	if err != nil {
		h.logger.Debug().Err(err).Str("func", "*HTTPDelegate.Subscribe").Stringer("request", req).Msg("subscription rejected")
		return false
	}

	return true
}

// Unsubscribe implements [RemoteDelegate] with
// DELETE /api/realtime/{kind}/sessions/{session}/subscriptions.
func (h *HTTPDelegate[ID, E]) Unsubscribe(ctx context.Context, req models.Request[ID]) {
	path, err := h.subscriptionsPath()
	if err != nil {
		return
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Delete(path)
	if err == nil {
		err = mapHTTPError(resp)
	}
	if err != nil {
		h.logger.Warn().Err(err).Str("func", "*HTTPDelegate.Unsubscribe").Stringer("request", req).Msg("unsubscribe failed")
	}
}

func (h *HTTPDelegate[ID, E]) subscriptionsPath() (string, error) {
	h.mu.RLock()
	st := h.stream
	h.mu.RUnlock()

	if st == nil {
		return "", ErrNoSession
	}
	return "/api/realtime/" + h.kind + "/sessions/" + url.PathEscape(st.session) + "/subscriptions", nil
}

func (h *HTTPDelegate[ID, E]) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
