package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors [StructuredConfig] in the shape used by config files.
// Durations are written as strings ("12h", "30s").
type fileConfig struct {
	Reference         string `json:"reference"          yaml:"reference"`
	TokenSignKey      string `json:"token_sign_key"     yaml:"token_sign_key"`
	TokenIssuer       string `json:"token_issuer"       yaml:"token_issuer"`
	TokenDuration     string `json:"token_duration"     yaml:"token_duration"`
	Version           string `json:"version"            yaml:"version"`
	CacheDir          string `json:"cache_dir"          yaml:"cache_dir"`
	EntryLifetime     string `json:"entry_lifetime"     yaml:"entry_lifetime"`
	MaxEntries        int    `json:"max_entries"        yaml:"max_entries"`
	PushDelay         string `json:"push_delay"         yaml:"push_delay"`
	StorageDriver     string `json:"storage_driver"     yaml:"storage_driver"`
	DatabaseDSN       string `json:"database_dsn"       yaml:"database_dsn"`
	Address           string `json:"address"            yaml:"address"`
	ServerAddress     string `json:"server_address"     yaml:"server_address"`
	RequestTimeout    string `json:"request_timeout"    yaml:"request_timeout"`
	Token             string `json:"token"              yaml:"token"`
	PullBatchSize     int    `json:"pull_batch_size"    yaml:"pull_batch_size"`
	HeartbeatInterval string `json:"heartbeat_interval" yaml:"heartbeat_interval"`
	PollInterval      string `json:"poll_interval"      yaml:"poll_interval"`
	BackoffBase       string `json:"backoff_base"       yaml:"backoff_base"`
	BackoffMax        string `json:"backoff_max"        yaml:"backoff_max"`
	MaxRetries        uint64 `json:"max_retries"        yaml:"max_retries"`
	ProbeAddress      string `json:"probe_address"      yaml:"probe_address"`
	ProbeInterval     string `json:"probe_interval"     yaml:"probe_interval"`
	SyncInterval      string `json:"sync_interval"      yaml:"sync_interval"`
	LogFile           string `json:"log_file"           yaml:"log_file"`
	LogMaxSizeMB      int    `json:"log_max_size_mb"    yaml:"log_max_size_mb"`
	LogMaxBackups     int    `json:"log_max_backups"    yaml:"log_max_backups"`
}

// parseFile reads a configuration file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func parseFile(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
	}

	return fc.toStructured()
}

func (fc *fileConfig) toStructured() (*StructuredConfig, error) {
	var p durationParser

	cfg := &StructuredConfig{
		App: App{
			Reference:     fc.Reference,
			TokenSignKey:  fc.TokenSignKey,
			TokenIssuer:   fc.TokenIssuer,
			TokenDuration: p.parse("token_duration", fc.TokenDuration),
			Version:       fc.Version,
		},
		Cache: Cache{
			Dir:           fc.CacheDir,
			EntryLifetime: p.parse("entry_lifetime", fc.EntryLifetime),
			MaxEntries:    fc.MaxEntries,
			PushDelay:     p.parse("push_delay", fc.PushDelay),
		},
		Storage: Storage{
			Driver: fc.StorageDriver,
			DSN:    fc.DatabaseDSN,
		},
		Server: Server{
			HTTPAddress:    fc.Address,
			RequestTimeout: p.parse("request_timeout", fc.RequestTimeout),
		},
		Adapter: Adapter{
			HTTPAddress:    fc.ServerAddress,
			RequestTimeout: p.parse("request_timeout", fc.RequestTimeout),
			Token:          fc.Token,
			PullBatchSize:  fc.PullBatchSize,
		},
		Realtime: Realtime{
			HeartbeatInterval: p.parse("heartbeat_interval", fc.HeartbeatInterval),
			PollInterval:      p.parse("poll_interval", fc.PollInterval),
			BackoffBase:       p.parse("backoff_base", fc.BackoffBase),
			BackoffMax:        p.parse("backoff_max", fc.BackoffMax),
			MaxRetries:        fc.MaxRetries,
			ProbeAddress:      fc.ProbeAddress,
			ProbeInterval:     p.parse("probe_interval", fc.ProbeInterval),
		},
		Workers: Workers{
			SyncInterval: p.parse("sync_interval", fc.SyncInterval),
		},
		Log: Log{
			File:       fc.LogFile,
			MaxSizeMB:  fc.LogMaxSizeMB,
			MaxBackups: fc.LogMaxBackups,
		},
	}

	if p.err != nil {
		return nil, p.err
	}
	return cfg, nil
}

// durationParser remembers the first parse failure so a whole file can be
// converted in one expression.
type durationParser struct {
	err error
}

func (p *durationParser) parse(field, value string) time.Duration {
	if value == "" || p.err != nil {
		return 0
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.err = fmt.Errorf("error parsing %s in config file: %w", field, err)
		return 0
	}
	return d
}
