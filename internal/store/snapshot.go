// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// LoadSnapshot reads and decodes the snapshot saved under reference.
//
// A snapshot that does not decode into T is deleted and reported as
// [ErrSnapshotCorrupted] so the next start begins from an empty state.
func LoadSnapshot[T any](ctx context.Context, s SnapshotStore, reference string) (T, error) {
	var out T

	data, err := s.Load(ctx, reference)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		if delErr := s.Delete(ctx, reference); delErr != nil {
			return zero, errors.Join(
				fmt.Errorf("%w: %w", ErrSnapshotCorrupted, err),
				fmt.Errorf("error deleting corrupted snapshot: %w", delErr),
			)
		}
		return zero, fmt.Errorf("%w: %w", ErrSnapshotCorrupted, err)
	}

	return out, nil
}

// SaveSnapshot encodes v and saves it under reference.
func SaveSnapshot[T any](ctx context.Context, s SnapshotStore, reference string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding snapshot %q: %w", reference, err)
	}
	return s.Save(ctx, reference, data)
}
