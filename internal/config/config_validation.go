// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

// Storage drivers accepted by the client.
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)

// validate checks source-independent invariants of the merged config.
// Role-specific checks live in [ClientConfig.validate] and
// [ServerConfig.validate].
func (cfg *StructuredConfig) validate() error {
	if cfg.Cache.MaxEntries < 0 || cfg.Cache.EntryLifetime < 0 || cfg.Cache.PushDelay < 0 {
		return ErrInvalidCacheConfigs
	}
	if cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.App.Reference) == "" {
		return fmt.Errorf("%w: empty reference", ErrInvalidAppConfigs)
	}

	switch cfg.Storage.Driver {
	case StorageDriverFile:
		if cfg.Storage.CacheDir == "" {
			return fmt.Errorf("%w: empty cache dir", ErrInvalidStorageConfigs)
		}
	case StorageDriverSQLite:
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.Driver)
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.PullBatchSize <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Realtime.BackoffBase <= 0 || cfg.Realtime.BackoffMax < cfg.Realtime.BackoffBase {
		return ErrInvalidRealtimeConfigs
	}

	if cfg.Workers.SyncInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Storage.DSN == "" {
		return fmt.Errorf("%w: empty dsn", ErrInvalidStorageConfigs)
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenDuration <= 0 {
		return fmt.Errorf("%w: token settings", ErrInvalidAppConfigs)
	}

	return nil
}
