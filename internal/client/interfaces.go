// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/go-gravity/internal/adapter"
	"github.com/MKhiriev/go-gravity/models"
)

// Client defines the lifecycle of a runnable client application.
type Client interface {
	// Run executes the configured command and blocks until it is done.
	Run(ctx context.Context) error

	// Close persists local state and releases resources.
	Close(ctx context.Context) error
}

// Remote is the notes delegate plus the session handling the client needs.
type Remote interface {
	adapter.RemoteDelegate[string, models.Note]

	Login(ctx context.Context, clientID string) (models.TokenResponse, error)
	SetToken(token string)
	SetUpdateHandler(fn adapter.UpdateHandler[string, models.Note])
	Close()
}
