// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the server. It is populated by merging values from a config
// file, environment variables and command-line flags.
//
// Struct tags:
//   - envPrefix is the prefix applied to all nested env tag lookups (caarlos0/env).
//   - env is the direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds identity and token settings.
	App App `envPrefix:"APP_"`

	// Cache holds the client entity cache limits and write debounce.
	Cache Cache `envPrefix:"CACHE_"`

	// Storage selects where snapshots (client) or entities (server) live.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the reference server's listen settings.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the client's remote endpoint settings.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Realtime tunes the subscription channel state machine.
	Realtime Realtime `envPrefix:"REALTIME_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Log controls the client log file.
	Log Log `envPrefix:"LOG_"`

	// FilePath is the optional path to a JSON or YAML configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	FilePath string `env:"CONFIG"`

	// Args holds positional command-line arguments left after flag parsing.
	Args []string
}

// App holds identity and token settings.
type App struct {
	// Reference namespaces the client's persisted snapshot.
	// Env: APP_REFERENCE
	Reference string `env:"REFERENCE"`

	// TokenSignKey signs and verifies bearer tokens on the server.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long an issued token stays valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// Version is reported by the server's version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Cache holds the entity cache limits.
type Cache struct {
	// Dir is where the file snapshot store keeps <reference>.cache files.
	// Env: CACHE_DIR
	Dir string `env:"DIR"`

	// EntryLifetime is how long a cached entity stays fresh.
	// Env: CACHE_ENTRY_LIFETIME
	EntryLifetime time.Duration `env:"ENTRY_LIFETIME"`

	// MaxEntries is the cache capacity.
	// Env: CACHE_MAX_ENTRIES
	MaxEntries int `env:"MAX_ENTRIES"`

	// PushDelay is the quiet period after a local write before it is pushed.
	// Env: CACHE_PUSH_DELAY
	PushDelay time.Duration `env:"PUSH_DELAY"`
}

// Storage selects the persistence backend.
type Storage struct {
	// Driver is "file" or "sqlite". The server always uses sqlite.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the sqlite database path or URI.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Server holds network settings for the reference server.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds the client's remote endpoint settings.
type Adapter struct {
	// HTTPAddress is the server base address.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single outbound call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Token is the bearer token sent with every call.
	// Env: ADAPTER_TOKEN
	Token string `env:"TOKEN"`

	// PullBatchSize caps how many ids one pull call asks for.
	// Env: ADAPTER_PULL_BATCH_SIZE
	PullBatchSize int `env:"PULL_BATCH_SIZE"`
}

// Realtime tunes the realtime controller.
type Realtime struct {
	// HeartbeatInterval is the liveness probe period while connected.
	// Env: REALTIME_HEARTBEAT_INTERVAL
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL"`

	// PollInterval is the re-poll delay while a connect is in progress.
	// Env: REALTIME_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// BackoffBase is the first reconnect delay.
	// Env: REALTIME_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffMax caps a single reconnect delay.
	// Env: REALTIME_BACKOFF_MAX
	BackoffMax time.Duration `env:"BACKOFF_MAX"`

	// MaxRetries is how many reconnects are scheduled before going dormant.
	// Env: REALTIME_MAX_RETRIES
	MaxRetries uint64 `env:"MAX_RETRIES"`

	// ProbeAddress is dialed to detect network availability.
	// Env: REALTIME_PROBE_ADDRESS
	ProbeAddress string `env:"PROBE_ADDRESS"`

	// ProbeInterval is how often the probe runs.
	// Env: REALTIME_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Workers holds background job settings.
type Workers struct {
	// SyncInterval is the period of the background sync trigger.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// Log controls the client log file.
type Log struct {
	// File is the log file path; empty means "logs" next to the binary.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// MaxSizeMB triggers rotation.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups is how many rotated files are kept.
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
}

// GetStructuredConfig loads and merges the configuration from all available
// sources. Later sources override earlier non-zero fields:
//  1. Config file (path resolved from env and flags)
//  2. Environment variables
//  3. Command-line flags
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withFile().
		build()
}
