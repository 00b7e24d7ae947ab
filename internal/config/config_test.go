package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// ── builder ──────────────────────────────────────────────────────────────────

func TestConfigBuilder_Precedence(t *testing.T) {
	path := writeTempConfig(t, "cfg.json", `{
		"reference": "from-file",
		"max_entries": 10,
		"push_delay": "2s",
		"entry_lifetime": "1h"
	}`)

	t.Setenv("CONFIG", path)
	t.Setenv("CACHE_MAX_ENTRIES", "20")
	t.Setenv("CACHE_PUSH_DELAY", "3s")

	b := newConfigBuilder()
	b.args = []string{"-push-delay", "4s", "list"}
	cfg, err := b.withEnv().withFlags().withFile().build()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.App.Reference)
	assert.Equal(t, time.Hour, cfg.Cache.EntryLifetime)
	assert.Equal(t, 20, cfg.Cache.MaxEntries, "env beats file")
	assert.Equal(t, 4*time.Second, cfg.Cache.PushDelay, "flags beat env")
	assert.Equal(t, []string{"list"}, cfg.Args)
}

func TestConfigBuilder_FlagFilePathWins(t *testing.T) {
	envPath := writeTempConfig(t, "env.json", `{"reference": "env"}`)
	flagPath := writeTempConfig(t, "flag.yaml", "reference: flag\n")

	t.Setenv("CONFIG", envPath)

	b := newConfigBuilder()
	b.args = []string{"-c", flagPath}
	cfg, err := b.withEnv().withFlags().withFile().build()
	require.NoError(t, err)
	assert.Equal(t, "flag", cfg.App.Reference)
}

func TestConfigBuilder_Errors(t *testing.T) {
	t.Run("bad env value", func(t *testing.T) {
		t.Setenv("CACHE_MAX_ENTRIES", "many")
		b := newConfigBuilder()
		b.args = []string{}
		_, err := b.withEnv().withFlags().withFile().build()
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		b := newConfigBuilder()
		b.args = []string{"-nope"}
		_, err := b.withFlags().build()
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		b := newConfigBuilder()
		b.args = []string{"-c", filepath.Join(t.TempDir(), "absent.json")}
		_, err := b.withFlags().withFile().build()
		require.Error(t, err)
	})

	t.Run("negative capacity", func(t *testing.T) {
		b := newConfigBuilder()
		b.args = []string{"-max-entries", "-1"}
		_, err := b.withFlags().build()
		require.ErrorIs(t, err, ErrInvalidCacheConfigs)
	})
}

// ── flags ────────────────────────────────────────────────────────────────────

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{
		"-a", "127.0.0.1:9090",
		"-s", "localhost:8080",
		"-request-timeout", "7s",
		"-storage-driver", "sqlite",
		"-d", "client.db",
		"-token", "abc",
		"sync",
	})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.HTTPAddress)
	assert.Equal(t, "localhost:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 7*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 7*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "client.db", cfg.Storage.DSN)
	assert.Equal(t, "abc", cfg.Adapter.Token)
	assert.Equal(t, []string{"sync"}, cfg.Args)
}

func TestParseFlags_NoArgsLeavesZeroes(t *testing.T) {
	cfg, err := ParseFlags([]string{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.Cache.MaxEntries)
	assert.Nil(t, cfg.Args)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"ip and port", "127.0.0.1:8080", "127.0.0.1:8080", false},
		{"localhost", "localhost:80", "localhost:80", false},
		{"empty host", ":8080", ":8080", false},
		{"no port", "localhost", "", true},
		{"port not a number", "localhost:http", "", true},
		{"port out of range", "localhost:70000", "", true},
		{"bad ip", "300.1.1.1:80", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

// ── file ─────────────────────────────────────────────────────────────────────

func TestParseFile_JSONAndYAML(t *testing.T) {
	jsonPath := writeTempConfig(t, "cfg.json", `{
		"server_address": "localhost:8081",
		"heartbeat_interval": "10s",
		"max_retries": 3,
		"log_max_backups": 2
	}`)
	yamlPath := writeTempConfig(t, "cfg.yml", `
server_address: localhost:8081
heartbeat_interval: 10s
max_retries: 3
log_max_backups: 2
`)

	for _, path := range []string{jsonPath, yamlPath} {
		cfg, err := parseFile(path)
		require.NoError(t, err, path)
		assert.Equal(t, "localhost:8081", cfg.Adapter.HTTPAddress)
		assert.Equal(t, 10*time.Second, cfg.Realtime.HeartbeatInterval)
		assert.Equal(t, uint64(3), cfg.Realtime.MaxRetries)
		assert.Equal(t, 2, cfg.Log.MaxBackups)
	}
}

func TestParseFile_Errors(t *testing.T) {
	_, err := parseFile(writeTempConfig(t, "bad.json", `{not json`))
	require.Error(t, err)

	_, err = parseFile(writeTempConfig(t, "dur.json", `{"push_delay": "soon"}`))
	require.ErrorContains(t, err, "push_delay")
}

// ── client ───────────────────────────────────────────────────────────────────

func TestNewClientConfig_Defaults(t *testing.T) {
	cfg, err := NewClientConfig(&StructuredConfig{})
	require.NoError(t, err)

	assert.Equal(t, DefaultReference, cfg.App.Reference)
	assert.Equal(t, 12*time.Hour, cfg.Cache.EntryLifetime)
	assert.Equal(t, 50, cfg.Cache.MaxEntries)
	assert.Equal(t, StorageDriverFile, cfg.Storage.Driver)
	assert.NotEmpty(t, cfg.Storage.CacheDir)
	assert.Equal(t, DefaultServerAddress, cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultServerAddress, cfg.Realtime.ProbeAddress)
	assert.Equal(t, 30*time.Second, cfg.Realtime.HeartbeatInterval)
	assert.Equal(t, uint64(DefaultMaxRetries), cfg.Realtime.MaxRetries)
	assert.Equal(t, DefaultSyncInterval, cfg.Workers.SyncInterval)
}

func TestNewClientConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     StructuredConfig
		wantErr error
	}{
		{
			name:    "blank reference",
			cfg:     StructuredConfig{App: App{Reference: "  "}},
			wantErr: ErrInvalidAppConfigs,
		},
		{
			name:    "unknown driver",
			cfg:     StructuredConfig{Storage: Storage{Driver: "redis"}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "sqlite without dsn",
			cfg:     StructuredConfig{Storage: Storage{Driver: StorageDriverSQLite}},
			wantErr: ErrInvalidStorageConfigs,
		},
		{
			name:    "backoff max below base",
			cfg:     StructuredConfig{Realtime: Realtime{BackoffBase: time.Minute, BackoffMax: time.Second}},
			wantErr: ErrInvalidRealtimeConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClientConfig(&tt.cfg)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── server ───────────────────────────────────────────────────────────────────

func TestNewServerConfig(t *testing.T) {
	_, err := NewServerConfig(&StructuredConfig{})
	require.ErrorIs(t, err, ErrInvalidAppConfigs, "sign key is required")

	cfg, err := NewServerConfig(&StructuredConfig{App: App{TokenSignKey: "secret"}})
	require.NoError(t, err)
	assert.Equal(t, DefaultServerAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultServerDSN, cfg.Storage.DSN)
	assert.Equal(t, DefaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, DefaultTokenDuration, cfg.App.TokenDuration)
}
