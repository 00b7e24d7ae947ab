// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
)

// Storage driver names accepted by [NewSnapshotStore].
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ClientStorages bundles what the client needs to persist its state.
type ClientStorages struct {
	Snapshots SnapshotStore

	db *DB
}

// Close releases the underlying database, if any.
func (c *ClientStorages) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// NewClientStorages builds the snapshot store selected by cfg.Driver.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	switch cfg.Driver {
	case DriverFile, "":
		snapshots, err := NewFileSnapshotStore(cfg.CacheDir, log)
		if err != nil {
			return nil, err
		}
		return &ClientStorages{Snapshots: snapshots}, nil
	case DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg.DSN, log)
		if err != nil {
			return nil, fmt.Errorf("error connecting snapshot database: %w", err)
		}
		return &ClientStorages{Snapshots: NewSQLiteSnapshotStore(db, log), db: db}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Storages bundles the server-side repositories.
type Storages struct {
	EntityRepository EntityRepository

	db *DB
}

// Close releases the database.
func (s *Storages) Close() error {
	return s.db.Close()
}

// NewStorages opens the server database and builds its repositories.
func NewStorages(ctx context.Context, cfg config.ServerStorage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectSQLite(ctx, cfg.DSN, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting entity database: %w", err)
	}

	return &Storages{
		EntityRepository: NewEntityRepository(db, log),
		db:               db,
	}, nil
}
