// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildSelectEntitiesQuery(t *testing.T) {
	query, args, err := buildSelectEntitiesQuery("notes", nil)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, payload FROM entities WHERE kind = ? ORDER BY id", query)
	assert.Equal(t, []any{"notes"}, args)

	query, args, err = buildSelectEntitiesQuery("notes", []string{`"a"`, `"b"`})
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, payload FROM entities WHERE kind = ? AND id IN (?,?) ORDER BY id", query)
	assert.Equal(t, []any{"notes", `"a"`, `"b"`}, args)
}

func Test_buildUpsertEntitiesQuery(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := buildUpsertEntitiesQuery("notes", []RawEntity{
		{ID: "1", Payload: json.RawMessage(`{"id":1}`)},
		{ID: "2", Payload: json.RawMessage(`{"id":2}`)},
	}, now)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO entities (kind,id,payload,updated_at) VALUES (?,?,?,?),(?,?,?,?)")
	assert.Contains(t, query, "ON CONFLICT (kind, id) DO UPDATE")
	assert.Len(t, args, 8)
}

func Test_buildDeleteEntitiesQuery(t *testing.T) {
	query, args, err := buildDeleteEntitiesQuery("notes", []string{"1"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM entities WHERE id IN (?) AND kind = ?", query)
	assert.Equal(t, []any{"1", "notes"}, args)
}

func Test_buildSnapshotQueries(t *testing.T) {
	query, args, err := buildSelectSnapshotQuery("notes")
	require.NoError(t, err)
	assert.Equal(t, "SELECT payload FROM snapshots WHERE reference = ?", query)
	assert.Equal(t, []any{"notes"}, args)

	query, _, err = buildUpsertSnapshotQuery("notes", []byte("{}"), time.Now())
	require.NoError(t, err)
	assert.Contains(t, query, "ON CONFLICT (reference) DO UPDATE")

	query, _, err = buildDeleteSnapshotQuery("notes")
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM snapshots WHERE reference = ?", query)
}
