// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNote() models.Note {
	return models.Note{
		ID:        "3b1f6c1e-6a43-4a53-9a1c-2b8f9f0e7d11",
		Title:     "Groceries",
		Body:      "milk",
		Tags:      []string{"home", "errands"},
		UpdatedAt: time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewNoteValidator(t *testing.T) {
	require.NotNil(t, NewNoteValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewNoteValidator()
	ctx := context.Background()
	n := validNote()

	assert.NoError(t, v.Validate(ctx, n))
	assert.NoError(t, v.Validate(ctx, &n))
	assert.NoError(t, v.Validate(ctx, []models.Note{n}))
	assert.ErrorIs(t, v.Validate(ctx, "note"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, []models.Note{}), ErrEmptyNotes)
}

func TestValidate_Note(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.Note)
		fields  []string
		wantErr error
	}{
		{
			name:   "valid",
			mutate: func(*models.Note) {},
		},
		{
			name:    "empty id",
			mutate:  func(n *models.Note) { n.ID = "" },
			wantErr: ErrInvalidID,
		},
		{
			name:    "padded id",
			mutate:  func(n *models.Note) { n.ID = " a " },
			wantErr: ErrInvalidID,
		},
		{
			name:    "long id",
			mutate:  func(n *models.Note) { n.ID = strings.Repeat("x", MaxIDLength+1) },
			wantErr: ErrInvalidID,
		},
		{
			name:    "blank title",
			mutate:  func(n *models.Note) { n.Title = "   " },
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "long title",
			mutate:  func(n *models.Note) { n.Title = strings.Repeat("й", MaxTitleLength+1) },
			wantErr: ErrTitleTooLong,
		},
		{
			name:   "title of max runes",
			mutate: func(n *models.Note) { n.Title = strings.Repeat("й", MaxTitleLength) },
		},
		{
			name:    "empty tag",
			mutate:  func(n *models.Note) { n.Tags = []string{"a", ""} },
			wantErr: ErrInvalidTag,
		},
		{
			name:    "tag with comma",
			mutate:  func(n *models.Note) { n.Tags = []string{"a,b"} },
			wantErr: ErrInvalidTag,
		},
		{
			name:    "duplicate tag",
			mutate:  func(n *models.Note) { n.Tags = []string{"a", "a"} },
			wantErr: ErrDuplicateTag,
		},
		{
			name: "too many tags",
			mutate: func(n *models.Note) {
				n.Tags = nil
				for i := range MaxTags + 1 {
					n.Tags = append(n.Tags, strings.Repeat("t", i+1))
				}
			},
			wantErr: ErrTooManyTags,
		},
		{
			name:    "zero updated_at",
			mutate:  func(n *models.Note) { n.UpdatedAt = time.Time{} },
			wantErr: ErrMissingUpdatedAt,
		},
		{
			name:   "scoped to title skips updated_at",
			mutate: func(n *models.Note) { n.UpdatedAt = time.Time{} },
			fields: []string{FieldTitle},
		},
		{
			name:    "unknown field",
			mutate:  func(*models.Note) {},
			fields:  []string{"color"},
			wantErr: ErrUnknownField,
		},
	}

	v := NewNoteValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNote()
			tt.mutate(&n)

			err := v.Validate(context.Background(), n, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NotesReportsIndex(t *testing.T) {
	bad := validNote()
	bad.Title = ""

	err := NewNoteValidator().Validate(context.Background(), []models.Note{validNote(), bad})

	require.ErrorIs(t, err, ErrEmptyTitle)
	assert.Contains(t, err.Error(), "index 1")
}
