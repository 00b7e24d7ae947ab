package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Client defaults applied to fields no source has set.
const (
	DefaultReference         = "notes"
	DefaultEntryLifetime     = 12 * time.Hour
	DefaultMaxEntries        = 50
	DefaultPushDelay         = 5 * time.Second
	DefaultRequestTimeout    = 15 * time.Second
	DefaultPullBatchSize     = 50
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPollInterval      = time.Second
	DefaultBackoffBase       = time.Second
	DefaultBackoffMax        = time.Minute
	DefaultMaxRetries        = 7
	DefaultProbeInterval     = 5 * time.Second
	DefaultSyncInterval      = 5 * time.Minute
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// Reference namespaces the persisted cache snapshot.
	Reference string
}

// ClientCache holds entity cache limits.
type ClientCache struct {
	EntryLifetime time.Duration
	MaxEntries    int
	// PushDelay is the debounce applied to local writes.
	PushDelay time.Duration
}

// ClientStorage selects where cache snapshots are kept.
type ClientStorage struct {
	// Driver is [StorageDriverFile] or [StorageDriverSQLite].
	Driver string
	// DSN is the sqlite database used by [StorageDriverSQLite].
	DSN string
	// CacheDir is the directory used by [StorageDriverFile].
	CacheDir string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the server base address.
	HTTPAddress string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// Token is sent as a bearer token.
	Token string
	// PullBatchSize caps ids per pull call.
	PullBatchSize int
}

// ClientRealtime tunes the realtime controller.
type ClientRealtime struct {
	HeartbeatInterval time.Duration
	PollInterval      time.Duration
	BackoffBase       time.Duration
	BackoffMax        time.Duration
	MaxRetries        uint64
	// ProbeAddress is dialed to detect network availability. Empty means
	// the adapter's address.
	ProbeAddress  string
	ProbeInterval time.Duration
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the background sync is triggered.
	SyncInterval time.Duration
}

// ClientLog controls the rotating log file.
type ClientLog struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App      ClientApp
	Cache    ClientCache
	Storage  ClientStorage
	Adapter  ClientAdapter
	Realtime ClientRealtime
	Workers  ClientWorkers
	Log      ClientLog

	// Args holds the command and its arguments.
	Args []string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewClientConfig(cfg)
}

// NewClientConfig maps the client-relevant fields of cfg, fills defaults and
// validates the result.
func NewClientConfig(cfg *StructuredConfig) (*ClientConfig, error) {
	remote := withDefault(cfg.Adapter.HTTPAddress, DefaultServerAddress)
	clientCfg := &ClientConfig{
		App: ClientApp{
			Reference: withDefault(cfg.App.Reference, DefaultReference),
		},
		Cache: ClientCache{
			EntryLifetime: withDefault(cfg.Cache.EntryLifetime, DefaultEntryLifetime),
			MaxEntries:    withDefault(cfg.Cache.MaxEntries, DefaultMaxEntries),
			PushDelay:     withDefault(cfg.Cache.PushDelay, DefaultPushDelay),
		},
		Storage: ClientStorage{
			Driver:   withDefault(cfg.Storage.Driver, StorageDriverFile),
			DSN:      cfg.Storage.DSN,
			CacheDir: withDefault(cfg.Cache.Dir, defaultCacheDir()),
		},
		Adapter: ClientAdapter{
			HTTPAddress:    remote,
			RequestTimeout: withDefault(cfg.Adapter.RequestTimeout, DefaultRequestTimeout),
			Token:          cfg.Adapter.Token,
			PullBatchSize:  withDefault(cfg.Adapter.PullBatchSize, DefaultPullBatchSize),
		},
		Realtime: ClientRealtime{
			HeartbeatInterval: withDefault(cfg.Realtime.HeartbeatInterval, DefaultHeartbeatInterval),
			PollInterval:      withDefault(cfg.Realtime.PollInterval, DefaultPollInterval),
			BackoffBase:       withDefault(cfg.Realtime.BackoffBase, DefaultBackoffBase),
			BackoffMax:        withDefault(cfg.Realtime.BackoffMax, DefaultBackoffMax),
			MaxRetries:        withDefault(cfg.Realtime.MaxRetries, DefaultMaxRetries),
			ProbeAddress:      withDefault(cfg.Realtime.ProbeAddress, remote),
			ProbeInterval:     withDefault(cfg.Realtime.ProbeInterval, DefaultProbeInterval),
		},
		Workers: ClientWorkers{
			SyncInterval: withDefault(cfg.Workers.SyncInterval, DefaultSyncInterval),
		},
		Log: ClientLog{
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		},
		Args: cfg.Args,
	}

	if err := clientCfg.validate(); err != nil {
		return nil, err
	}

	return clientCfg, nil
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "go-gravity")
}

func withDefault[T comparable](value, def T) T {
	var zero T
	if value == zero {
		return def
	}
	return value
}
