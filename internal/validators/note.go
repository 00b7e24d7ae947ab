// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-gravity/models"
)

// Field names accepted by [NoteValidator].
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldTags      = "tags"
	FieldUpdatedAt = "updated_at"
)

const (
	MaxIDLength    = 128
	MaxTitleLength = 200
	MaxTags        = 32
	MaxTagLength   = 64
)

var allNoteFields = []string{FieldID, FieldTitle, FieldTags, FieldUpdatedAt}

// NoteValidator validates [models.Note] values and batches of them.
type NoteValidator struct{}

func NewNoteValidator() Validator {
	return &NoteValidator{}
}

func (v *NoteValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Note:
		return v.validateNote(ctx, value, fields...)
	case *models.Note:
		return v.validateNote(ctx, *value, fields...)
	case []models.Note:
		return v.validateNotes(ctx, value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *NoteValidator) validateNote(_ context.Context, n models.Note, fields ...string) error {
	if len(fields) == 0 {
		fields = allNoteFields
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldID:
			err = validateID(n.ID)
		case FieldTitle:
			err = validateTitle(n.Title)
		case FieldTags:
			err = validateTags(n.Tags)
		case FieldUpdatedAt:
			if n.UpdatedAt.IsZero() {
				err = ErrMissingUpdatedAt
			}
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *NoteValidator) validateNotes(ctx context.Context, notes []models.Note, fields ...string) error {
	if len(notes) == 0 {
		return ErrEmptyNotes
	}
	for i, n := range notes {
		if err := v.validateNote(ctx, n, fields...); err != nil {
			return fmt.Errorf("validation error at index %d: %w", i, err)
		}
	}
	return nil
}

func validateID(id string) error {
	if id == "" || strings.TrimSpace(id) != id || len(id) > MaxIDLength {
		return ErrInvalidID
	}
	return nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func validateTags(tags []string) error {
	if len(tags) > MaxTags {
		return ErrTooManyTags
	}

	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" || strings.TrimSpace(t) != t || strings.Contains(t, ",") || utf8.RuneCountInString(t) > MaxTagLength {
			return fmt.Errorf("%w: %q", ErrInvalidTag, t)
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateTag, t)
		}
		seen[t] = struct{}{}
	}
	return nil
}
