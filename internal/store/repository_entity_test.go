// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryEntityRepository(t *testing.T) EntityRepository {
	t.Helper()
	db, err := NewConnectSQLite(context.Background(), ":memory:", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewEntityRepository(db, logger.Nop())
}

func TestEntityRepository_UpsertGetDelete(t *testing.T) {
	repo := newMemoryEntityRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "notes", []RawEntity{
		{ID: `"a"`, Payload: json.RawMessage(`{"id":"a","title":"first"}`)},
		{ID: `"b"`, Payload: json.RawMessage(`{"id":"b","title":"second"}`)},
	}))
	require.NoError(t, repo.Upsert(ctx, "other", []RawEntity{
		{ID: `"a"`, Payload: json.RawMessage(`{"id":"a"}`)},
	}))

	all, err := repo.Get(ctx, "notes", nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, `"a"`, all[0].ID)
	assert.JSONEq(t, `{"id":"a","title":"first"}`, string(all[0].Payload))

	require.NoError(t, repo.Upsert(ctx, "notes", []RawEntity{
		{ID: `"a"`, Payload: json.RawMessage(`{"id":"a","title":"changed"}`)},
	}))
	some, err := repo.Get(ctx, "notes", []string{`"a"`, `"zzz"`})
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.JSONEq(t, `{"id":"a","title":"changed"}`, string(some[0].Payload))

	deleted, err := repo.Delete(ctx, "notes", []string{`"a"`, `"zzz"`})
	require.NoError(t, err)
	assert.Equal(t, []string{`"a"`}, deleted)

	all, err = repo.Get(ctx, "notes", nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, `"b"`, all[0].ID)

	other, err := repo.Get(ctx, "other", nil)
	require.NoError(t, err)
	assert.Len(t, other, 1, "kinds are isolated")
}

func TestEntityRepository_EmptyInputs(t *testing.T) {
	repo := newMemoryEntityRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "notes", nil))
	deleted, err := repo.Delete(ctx, "notes", nil)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestEntityRepository_Get_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntityRepository(&DB{DB: db, logger: logger.Nop()}, logger.Nop())
	mock.ExpectQuery("SELECT id, payload FROM entities").
		WillReturnError(errors.New("boom"))

	_, err = repo.Get(context.Background(), "notes", nil)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestEntityRepository_Delete_BeginError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntityRepository(&DB{DB: db, logger: logger.Nop()}, logger.Nop())
	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	_, err = repo.Delete(context.Background(), "notes", []string{`"a"`})
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}
