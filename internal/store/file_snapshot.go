// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

const snapshotFileExt = ".cache"

// fileSnapshotStore keeps every snapshot in <dir>/<reference>.cache.
type fileSnapshotStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileSnapshotStore creates dir if needed and returns a [SnapshotStore]
// writing one file per reference into it.
func NewFileSnapshotStore(dir string, log *logger.Logger) (SnapshotStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty cache directory", ErrInvalidReference)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Err(err).Str("func", "NewFileSnapshotStore").Str("dir", dir).Msg("error creating cache directory")
		return nil, fmt.Errorf("error creating cache directory: %w", err)
	}

	return &fileSnapshotStore{dir: dir, logger: log}, nil
}

func (f *fileSnapshotStore) Load(ctx context.Context, reference string) ([]byte, error) {
	path, err := f.path(reference)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*fileSnapshotStore.Load").Str("path", path).Msg("error reading snapshot")
		return nil, fmt.Errorf("error reading snapshot %q: %w", reference, err)
	}

	return data, nil
}

// Save writes to a temporary file in the same directory and renames it over
// the previous snapshot.
func (f *fileSnapshotStore) Save(ctx context.Context, reference string, data []byte) error {
	path, err := f.path(reference)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	tmp, err := os.CreateTemp(f.dir, reference+"-*.tmp")
	if err != nil {
		log.Err(err).Str("func", "*fileSnapshotStore.Save").Str("dir", f.dir).Msg("error creating temp file")
		return fmt.Errorf("error creating temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("error writing snapshot %q: %w", reference, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("error closing snapshot %q: %w", reference, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		log.Err(err).Str("func", "*fileSnapshotStore.Save").Str("path", path).Msg("error replacing snapshot")
		return fmt.Errorf("error replacing snapshot %q: %w", reference, err)
	}

	return nil
}

func (f *fileSnapshotStore) Delete(_ context.Context, reference string) error {
	path, err := f.path(reference)
	if err != nil {
		return err
	}

	if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error deleting snapshot %q: %w", reference, err)
	}
	return nil
}

func (f *fileSnapshotStore) path(reference string) (string, error) {
	if reference == "" || reference == "." || reference == ".." ||
		strings.ContainsAny(reference, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, reference)
	}
	return filepath.Join(f.dir, reference+snapshotFileExt), nil
}
