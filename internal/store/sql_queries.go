// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	snapshotsTable = "snapshots"
	entitiesTable  = "entities"
)

func buildSelectSnapshotQuery(reference string) (string, []any, error) {
	query, args, err := sq.Select("payload").
		From(snapshotsTable).
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertSnapshotQuery(reference string, payload []byte, now time.Time) (string, []any, error) {
	query, args, err := sq.Insert(snapshotsTable).
		Columns("reference", "payload", "updated_at").
		Values(reference, payload, now).
		Suffix("ON CONFLICT (reference) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteSnapshotQuery(reference string) (string, []any, error) {
	query, args, err := sq.Delete(snapshotsTable).
		Where(sq.Eq{"reference": reference}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSelectEntitiesQuery selects every entity of kind, narrowed to ids
// when ids is not empty.
func buildSelectEntitiesQuery(kind string, ids []string) (string, []any, error) {
	builder := sq.Select("id", "payload").
		From(entitiesTable).
		Where(sq.Eq{"kind": kind})
	if len(ids) > 0 {
		builder = builder.Where(sq.Eq{"id": ids})
	}

	query, args, err := builder.OrderBy("id").ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildUpsertEntitiesQuery(kind string, entities []RawEntity, now time.Time) (string, []any, error) {
	builder := sq.Insert(entitiesTable).Columns("kind", "id", "payload", "updated_at")
	for _, e := range entities {
		builder = builder.Values(kind, e.ID, []byte(e.Payload), now)
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildDeleteEntitiesQuery(kind string, ids []string) (string, []any, error) {
	query, args, err := sq.Delete(entitiesTable).
		Where(sq.Eq{"kind": kind, "id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}
