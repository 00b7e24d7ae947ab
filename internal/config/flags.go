package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from args. A nil args slice
// means os.Args[1:]. Parsing stops at the first non-flag argument; the rest
// is kept in [StructuredConfig.Args].
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-s remote server address used by the client
//	-c/-config JSON or YAML file path with configs
//	-reference cache namespace
//	-cache-dir directory for snapshot files
//	-entry-lifetime cache entry lifetime (e.g., "12h")
//	-max-entries cache capacity
//	-push-delay write debounce (e.g., "5s")
//	-storage-driver "file" or "sqlite"
//	-d sqlite DSN
//	-token bearer token used by the client
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration token duration (e.g., "1h", "30m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-heartbeat realtime heartbeat interval
//	-sync-interval background sync interval
//	-log-file client log file path
func ParseFlags(args []string) (*StructuredConfig, error) {
	if args == nil {
		args = os.Args[1:]
	}

	fs := flag.NewFlagSet("go-gravity", flag.ContinueOnError)

	var serverAddress, remoteAddress NetAddress
	var filePath string
	cfg := &StructuredConfig{}

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&remoteAddress, "s", "Remote server address host:port")
	fs.StringVar(&filePath, "c", "", "Config file path (json or yaml)")
	fs.StringVar(&filePath, "config", "", "Config file path (alias)")
	fs.StringVar(&cfg.App.Reference, "reference", "", "Cache namespace")
	fs.StringVar(&cfg.Cache.Dir, "cache-dir", "", "Snapshot directory")
	fs.DurationVar(&cfg.Cache.EntryLifetime, "entry-lifetime", 0, "Cache entry lifetime (e.g., 12h)")
	fs.IntVar(&cfg.Cache.MaxEntries, "max-entries", 0, "Cache capacity")
	fs.DurationVar(&cfg.Cache.PushDelay, "push-delay", 0, "Write debounce (e.g., 5s)")
	fs.StringVar(&cfg.Storage.Driver, "storage-driver", "", "Snapshot storage driver: file or sqlite")
	fs.StringVar(&cfg.Storage.DSN, "d", "", "SQLite DSN")
	fs.StringVar(&cfg.Adapter.Token, "token", "", "Bearer token")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "Token duration (e.g., 1h, 30m)")
	requestTimeout := fs.Duration("request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&cfg.Realtime.HeartbeatInterval, "heartbeat", 0, "Realtime heartbeat interval")
	fs.DurationVar(&cfg.Workers.SyncInterval, "sync-interval", 0, "Background sync interval")
	fs.StringVar(&cfg.Log.File, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.RequestTimeout = *requestTimeout
	cfg.Adapter.HTTPAddress = remoteAddress.String()
	cfg.Adapter.RequestTimeout = *requestTimeout
	cfg.FilePath = filePath
	if rest := fs.Args(); len(rest) > 0 {
		cfg.Args = rest
	}

	return cfg, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1..65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

var _ flag.Value = (*NetAddress)(nil)
