// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store persists coordinator snapshots on the client and entity
// payloads on the reference server.
//
// Snapshots are opaque byte blobs keyed by a reference string; the typed
// helpers [LoadSnapshot] and [SaveSnapshot] add JSON encoding on top and
// turn decode failures into [ErrSnapshotCorrupted].
package store

import (
	"context"
	"encoding/json"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SnapshotStore keeps one opaque snapshot per reference.
type SnapshotStore interface {
	// Load returns the snapshot saved under reference, or
	// [ErrSnapshotNotFound].
	Load(ctx context.Context, reference string) ([]byte, error)

	// Save replaces the snapshot saved under reference.
	Save(ctx context.Context, reference string, data []byte) error

	// Delete drops the snapshot saved under reference. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, reference string) error
}

// RawEntity is an entity payload kept by the server without knowing its
// Go type. ID is the canonical JSON text of the entity's "id" field.
type RawEntity struct {
	ID      string
	Payload json.RawMessage
}

// EntityRepository stores raw entities grouped by kind.
type EntityRepository interface {
	// Get returns entities of kind with the given ids, or every entity of
	// kind when ids is empty.
	Get(ctx context.Context, kind string, ids []string) ([]RawEntity, error)

	// Upsert inserts or replaces entities.
	Upsert(ctx context.Context, kind string, entities []RawEntity) error

	// Delete removes entities and returns the ids that existed.
	Delete(ctx context.Context, kind string, ids []string) ([]string, error)
}
