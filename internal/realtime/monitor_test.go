package realtime

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingListener struct {
	mu      sync.Mutex
	changes []bool
}

func (r *recordingListener) NetworkChanged(available bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, available)
}

func (r *recordingListener) recorded() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.changes...)
}

func TestNetworkMonitor_ReportsFlips(t *testing.T) {
	listener := &recordingListener{}
	m, err := NewNetworkMonitor("example.invalid:80", 2*time.Millisecond, listener, logger.Nop())
	require.NoError(t, err)

	// up, up, down, down, up, then up forever
	script := []bool{true, true, false, false, true}
	var mu sync.Mutex
	calls := 0
	m.dial = func(context.Context, string) error {
		mu.Lock()
		defer mu.Unlock()
		up := script[min(calls, len(script)-1)]
		calls++
		if up {
			return nil
		}
		return errors.New("unreachable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	require.Eventually(t, func() bool { return len(listener.recorded()) == 2 }, time.Second, time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []bool{false, true}, listener.recorded())
}

func TestNetworkMonitor_DialsTCP(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	assert.NoError(t, dialTCP(context.Background(), ln.Addr().String()))

	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	assert.Error(t, dialTCP(context.Background(), addr))
}

func TestNewNetworkMonitor_Validation(t *testing.T) {
	_, err := NewNetworkMonitor("", time.Second, &recordingListener{}, logger.Nop())
	assert.ErrorIs(t, err, ErrNoProbeAddress)

	_, err = NewNetworkMonitor("localhost", time.Second, &recordingListener{}, logger.Nop())
	assert.ErrorIs(t, err, ErrBadNetworkTarget)

	m, err := NewNetworkMonitor("localhost:1", 0, &recordingListener{}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, DefaultProbeInterval, m.interval)
}

func TestProbeTarget(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"localhost:8080", "localhost:8080"},
		{"http://localhost:8080/api", "localhost:8080"},
		{"https://sync.example.com", "sync.example.com:443"},
		{"http://sync.example.com", "sync.example.com:80"},
		{"ws://[::1]:9000", "[::1]:9000"},
		{"http://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ProbeTarget(tt.raw))
		})
	}
}
