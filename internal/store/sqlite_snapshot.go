// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// sqliteSnapshotStore keeps snapshots in the "snapshots" table.
type sqliteSnapshotStore struct {
	*DB
	logger *logger.Logger
}

// NewSQLiteSnapshotStore returns a [SnapshotStore] backed by db. The schema
// must already be migrated.
func NewSQLiteSnapshotStore(db *DB, log *logger.Logger) SnapshotStore {
	return &sqliteSnapshotStore{DB: db, logger: log}
}

func (s *sqliteSnapshotStore) Load(ctx context.Context, reference string) ([]byte, error) {
	log := logger.FromContext(ctx)

	if reference == "" {
		return nil, ErrInvalidReference
	}

	query, args, err := buildSelectSnapshotQuery(reference)
	if err != nil {
		log.Err(err).Str("func", "*sqliteSnapshotStore.Load").Msg("failed to create query")
		return nil, err
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "*sqliteSnapshotStore.Load").
			Str("reference", reference).
			Msg("failed to query snapshot")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return payload, nil
}

func (s *sqliteSnapshotStore) Save(ctx context.Context, reference string, data []byte) error {
	log := logger.FromContext(ctx)

	if reference == "" {
		return ErrInvalidReference
	}

	query, args, err := buildUpsertSnapshotQuery(reference, data, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*sqliteSnapshotStore.Save").Msg("failed to create query")
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*sqliteSnapshotStore.Save").
			Str("reference", reference).
			Int("size", len(data)).
			Msg("failed to upsert snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteSnapshotStore) Delete(ctx context.Context, reference string) error {
	query, args, err := buildDeleteSnapshotQuery(reference)
	if err != nil {
		return err
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*sqliteSnapshotStore.Delete").
			Str("reference", reference).
			Msg("failed to delete snapshot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
