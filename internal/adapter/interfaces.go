// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter connects the sync coordinator to a remote source of
// entities.
//
// The primary abstraction is [RemoteDelegate]. [Base] supplies defaults for
// the optional parts of the contract and [HTTPDelegate] implements the whole
// contract against the reference server: REST calls through resty and a
// realtime stream over a WebSocket.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"cmp"
	"context"

	"github.com/MKhiriev/go-gravity/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_delegate_mock.go -package=mock

// RemoteDelegate is everything the coordinator and the realtime controller
// need from a remote source of E.
type RemoteDelegate[ID cmp.Ordered, E models.Entity[ID]] interface {
	// Pull fetches the entities selected by req. Identifiers in req that
	// are absent from the result do not exist remotely.
	Pull(ctx context.Context, req models.Request[ID]) ([]E, error)

	// Push sends locally written entities.
	Push(ctx context.Context, entities []E) error

	// Pop deletes entities remotely. Sources without remote deletion return
	// [ErrUnsupported].
	Pop(ctx context.Context, entities []E) error

	// Process transforms a read result before it reaches the caller. It must
	// not block or perform I/O.
	Process(entities []E, req models.Request[ID]) []E

	// Connect opens the realtime channel, or probes it when heartbeat is
	// true.
	Connect(ctx context.Context, heartbeat bool) models.ConnectStatus

	// Subscribe asks to receive realtime updates for req. It reports
	// whether the remote side acknowledged the subscription.
	Subscribe(ctx context.Context, req models.Request[ID]) bool

	// Unsubscribe stops realtime updates for req.
	Unsubscribe(ctx context.Context, req models.Request[ID])
}

// UpdateHandler receives entities changed and identifiers deleted remotely.
type UpdateHandler[ID cmp.Ordered, E models.Entity[ID]] func(upserted []E, deleted []ID)
