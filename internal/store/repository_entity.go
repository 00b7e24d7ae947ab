// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// entityRepository is the SQLite-backed [EntityRepository] used by the
// reference server.
type entityRepository struct {
	*DB
	logger *logger.Logger
}

// NewEntityRepository constructs an [EntityRepository] on db.
func NewEntityRepository(db *DB, log *logger.Logger) EntityRepository {
	return &entityRepository{DB: db, logger: log}
}

func (r *entityRepository) Get(ctx context.Context, kind string, ids []string) ([]RawEntity, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectEntitiesQuery(kind, ids)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Get").Msg("failed to create query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "*entityRepository.Get").
			Str("kind", kind).
			Int("ids", len(ids)).
			Msg("failed to query entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]RawEntity, 0, len(ids))
	for rows.Next() {
		var (
			e       RawEntity
			payload []byte
		)
		if err = rows.Scan(&e.ID, &payload); err != nil {
			log.Err(err).Str("func", "*entityRepository.Get").Msg("failed to scan entity row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		e.Payload = payload
		result = append(result, e)
	}
	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "*entityRepository.Get").Msg("rows iteration error")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}

func (r *entityRepository) Upsert(ctx context.Context, kind string, entities []RawEntity) error {
	if len(entities) == 0 {
		return nil
	}
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertEntitiesQuery(kind, entities, time.Now().UTC())
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Upsert").Msg("failed to create query")
		return err
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "*entityRepository.Upsert").
			Str("kind", kind).
			Int("entities", len(entities)).
			Msg("failed to upsert entities")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Delete reads the existing ids and deletes them in one transaction.
func (r *entityRepository) Delete(ctx context.Context, kind string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	log := logger.FromContext(ctx)

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Delete").Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	selectQuery, selectArgs, err := buildSelectEntitiesQuery(kind, ids)
	if err != nil {
		return nil, err
	}
	rows, err := tx.QueryContext(ctx, selectQuery, selectArgs...)
	if err != nil {
		log.Err(err).Str("func", "*entityRepository.Delete").Msg("failed to query existing entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	existing := make([]string, 0, len(ids))
	for rows.Next() {
		var (
			id      string
			payload []byte
		)
		if err = rows.Scan(&id, &payload); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		existing = append(existing, id)
	}
	rows.Close()

	deleteQuery, deleteArgs, err := buildDeleteEntitiesQuery(kind, ids)
	if err != nil {
		return nil, err
	}
	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		log.Err(err).Str("func", "*entityRepository.Delete").Str("kind", kind).Msg("failed to delete entities")
		return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "*entityRepository.Delete").Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return existing, nil
}
