package config

import (
	"fmt"
	"time"
)

// Server defaults applied to fields no source has set.
const (
	DefaultServerAddress = "localhost:8080"
	DefaultTokenIssuer   = "go-gravity"
	DefaultTokenDuration = 24 * time.Hour
	DefaultServerDSN     = "gravity.db"
	DefaultServerTimeout = 30 * time.Second
	DefaultServerVersion = "dev"
)

// ServerApp holds token and version settings of the reference server.
type ServerApp struct {
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	Version       string
}

// ServerStorage holds the server database settings.
type ServerStorage struct {
	// DSN is the sqlite database path or URI.
	DSN string
}

// ServerHTTP holds the listen settings.
type ServerHTTP struct {
	HTTPAddress    string
	RequestTimeout time.Duration
}

// ServerConfig is the reference server configuration.
type ServerConfig struct {
	App     ServerApp
	Storage ServerStorage
	Server  ServerHTTP
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return NewServerConfig(cfg)
}

// NewServerConfig maps the server-relevant fields of cfg, fills defaults and
// validates the result.
func NewServerConfig(cfg *StructuredConfig) (*ServerConfig, error) {
	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   withDefault(cfg.App.TokenIssuer, DefaultTokenIssuer),
			TokenDuration: withDefault(cfg.App.TokenDuration, DefaultTokenDuration),
			Version:       withDefault(cfg.App.Version, DefaultServerVersion),
		},
		Storage: ServerStorage{
			DSN: withDefault(cfg.Storage.DSN, DefaultServerDSN),
		},
		Server: ServerHTTP{
			HTTPAddress:    withDefault(cfg.Server.HTTPAddress, DefaultServerAddress),
			RequestTimeout: withDefault(cfg.Server.RequestTimeout, DefaultServerTimeout),
		},
	}

	if err := serverCfg.validate(); err != nil {
		return nil, err
	}

	return serverCfg, nil
}
