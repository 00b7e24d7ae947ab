package realtime

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// DefaultProbeInterval is used when the monitor is created with a
// non-positive interval.
const DefaultProbeInterval = 5 * time.Second

// NetworkListener receives availability changes.
type NetworkListener interface {
	NetworkChanged(available bool)
}

// NetworkMonitor dials a TCP address on an interval and reports when the
// outcome flips. The first probe establishes the baseline; a listener only
// hears about changes after it.
type NetworkMonitor struct {
	address  string
	interval time.Duration
	listener NetworkListener
	dial     func(ctx context.Context, address string) error

	logger *logger.Logger
}

// NewNetworkMonitor creates a monitor probing address.
func NewNetworkMonitor(address string, interval time.Duration, listener NetworkListener, logger *logger.Logger) (*NetworkMonitor, error) {
	if address == "" {
		return nil, ErrNoProbeAddress
	}
	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadNetworkTarget, err)
	}
	return &NetworkMonitor{
		address:  address,
		interval: positiveOr(interval, DefaultProbeInterval),
		listener: listener,
		dial:     dialTCP,
		logger:   logger,
	}, nil
}

// Run probes until ctx is done.
func (m *NetworkMonitor) Run(ctx context.Context) error {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	last := m.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			now := m.probe(ctx)
			if now == last {
				continue
			}
			last = now
			m.logger.Info().Str("func", "*NetworkMonitor.Run").Bool("available", now).Str("address", m.address).Msg("network availability changed")
			m.listener.NetworkChanged(now)
		}
	}
}

func (m *NetworkMonitor) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()
	return m.dial(ctx, m.address) == nil
}

func dialTCP(ctx context.Context, address string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}

// ProbeTarget turns a server address or URL into a host:port to dial.
func ProbeTarget(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.Contains(raw, "://") {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Port() != "" {
		return u.Host
	}
	switch u.Scheme {
	case "https", "wss":
		return net.JoinHostPort(u.Hostname(), "443")
	default:
		return net.JoinHostPort(u.Hostname(), "80")
	}
}
