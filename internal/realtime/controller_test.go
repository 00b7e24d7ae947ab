// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package realtime

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

// fakeConnector returns scripted connect results; the last one repeats.
type fakeConnector struct {
	mu           sync.Mutex
	statuses     []models.ConnectStatus
	heartbeat    models.ConnectStatus
	reject       bool
	connects     int
	heartbeats   int
	subscribed   []models.Request[int]
	unsubscribed []models.Request[int]
}

func (f *fakeConnector) Connect(_ context.Context, heartbeat bool) models.ConnectStatus {
	f.mu.Lock()
	defer f.mu.Unlock()

	if heartbeat {
		f.heartbeats++
		return f.heartbeat
	}
	i := min(f.connects, len(f.statuses)-1)
	f.connects++
	return f.statuses[i]
}

func (f *fakeConnector) Subscribe(_ context.Context, req models.Request[int]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, req)
	return !f.reject
}

func (f *fakeConnector) Unsubscribe(_ context.Context, req models.Request[int]) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribed = append(f.unsubscribed, req)
}

func (f *fakeConnector) counts() (connects, heartbeats, subscribes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects, f.heartbeats, len(f.subscribed)
}

func (f *fakeConnector) setStatuses(s ...models.ConnectStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = s
	f.connects = 0
}

// fakeTimers records requested delays. With fire set, every timer elapses
// at once.
type fakeTimers struct {
	mu      sync.Mutex
	fire    bool
	delays  []time.Duration
	tickers []*fakeTicker
}

func (f *fakeTimers) after(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	ch := make(chan time.Time, 1)
	if f.fire {
		ch <- time.Time{}
	}
	return ch
}

func (f *fakeTimers) newTicker(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{c: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *fakeTimers) recorded() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.delays...)
}

func (f *fakeTimers) lastTicker() *fakeTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tickers) == 0 {
		return nil
	}
	return f.tickers[len(f.tickers)-1]
}

type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

var testRealtimeConfig = config.ClientRealtime{
	HeartbeatInterval: 30 * time.Second,
	PollInterval:      time.Second,
	BackoffBase:       time.Second,
	BackoffMax:        time.Minute,
	MaxRetries:        5,
}

// startController runs c until the test ends.
func startController(t *testing.T, c *Controller[int]) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

func newTestController(conn *fakeConnector, timers *fakeTimers, cfg config.ClientRealtime) *Controller[int] {
	return NewController[int](conn, cfg, logger.Nop(), WithTimers(timers.after, timers.newTicker))
}

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

// ─────────────────────────────────────────────────────────────────────────────
// Backoff and dormancy
// ─────────────────────────────────────────────────────────────────────────────

func TestController_BackoffThenDormant(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	timers := &fakeTimers{fire: true}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)

	require.Eventually(t, c.Dormant, waitFor, tick)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
	}, timers.recorded())
	assert.Equal(t, StateDisconnected, c.State())

	connects, _, _ := conn.counts()
	assert.Equal(t, 6, connects, "initial attempt plus five retries")
}

func TestController_BackoffIsCapped(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	timers := &fakeTimers{fire: true}
	cfg := testRealtimeConfig
	cfg.BackoffMax = 4 * time.Second
	c := newTestController(conn, timers, cfg)

	startController(t, c)

	require.Eventually(t, c.Dormant, waitFor, tick)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second, 4 * time.Second,
	}, timers.recorded())
}

func TestController_NetworkReturnWakesDormant(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	timers := &fakeTimers{fire: true}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, c.Dormant, waitFor, tick)

	conn.setStatuses(models.ConnectConnected)
	c.NetworkChanged(true)

	require.Eventually(t, func() bool { return c.State() == StateConnected }, waitFor, tick)
	assert.False(t, c.Dormant())
	connects, _, _ := conn.counts()
	assert.Equal(t, 1, connects)
}

func TestController_NetworkReturnAfterLossWakesDormant(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	timers := &fakeTimers{fire: true}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, c.Dormant, waitFor, tick)

	conn.setStatuses(models.ConnectConnected)
	c.NetworkChanged(false)
	c.NetworkChanged(true)

	require.Eventually(t, func() bool { return c.State() == StateConnected }, waitFor, tick)
	assert.False(t, c.Dormant())
}

func TestController_NetworkAvailableRestartsBackoff(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	timers := &fakeTimers{fire: true}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, c.Dormant, waitFor, tick)

	c.NetworkChanged(true)

	require.Eventually(t, func() bool { return len(timers.recorded()) == 10 }, waitFor, tick)
	require.Eventually(t, c.Dormant, waitFor, tick)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second, 16 * time.Second,
	}, timers.recorded()[5:], "a fresh schedule starts from the base delay")
}

func TestController_HeartbeatSuccessReconciles(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectConnected}, heartbeat: models.ConnectConnected}
	timers := &fakeTimers{}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, func() bool { return c.State() == StateConnected }, waitFor, tick)

	ticker := timers.lastTicker()
	require.NotNil(t, ticker)
	ticker.c <- time.Now()

	require.Eventually(t, func() bool {
		_, heartbeats, _ := conn.counts()
		return heartbeats == 1
	}, waitFor, tick)
	assert.Equal(t, StateConnected, c.State())
}

func TestController_NetworkLossSuspends(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectConnected}}
	timers := &fakeTimers{}
	c := newTestController(conn, timers, testRealtimeConfig)
	c.Subscribe(models.All[int]())

	startController(t, c)
	require.Eventually(t, func() bool { return len(c.Acknowledged()) == 1 }, waitFor, tick)
	ticker := timers.lastTicker()

	c.NetworkChanged(false)

	require.Eventually(t, ticker.stopped.Load, waitFor, tick)
	assert.Equal(t, StateConnected, c.State(), "losing the network does not force a disconnect")
	assert.Equal(t, []models.Request[int]{models.All[int]()}, c.Acknowledged())
	assert.Equal(t, []models.Request[int]{models.All[int]()}, c.Desired())

	c.NetworkChanged(true)
	require.Eventually(t, func() bool {
		connects, _, _ := conn.counts()
		return connects == 2
	}, waitFor, tick)
	require.Eventually(t, func() bool { return timers.lastTicker() != ticker }, waitFor, tick)
	assert.Equal(t, StateConnected, c.State())

	_, _, subscribes := conn.counts()
	assert.Equal(t, 1, subscribes, "acknowledged subscriptions are not registered twice")
}

func TestController_UnsupportedStopsTrying(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectUnsupported}}
	timers := &fakeTimers{fire: true}
	c := newTestController(conn, timers, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, func() bool {
		connects, _, _ := conn.counts()
		return connects == 1
	}, waitFor, tick)

	c.NetworkChanged(false)
	c.NetworkChanged(true)
	time.Sleep(20 * time.Millisecond)

	connects, _, _ := conn.counts()
	assert.Equal(t, 1, connects)
	assert.Empty(t, timers.recorded())
	assert.Equal(t, StateDisconnected, c.State())
}

// ─────────────────────────────────────────────────────────────────────────────
// API
// ─────────────────────────────────────────────────────────────────────────────

func TestController_UnsubscribeCallsConnectorAtOnce(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectDisconnected}}
	c := newTestController(conn, &fakeTimers{}, testRealtimeConfig)
	c.Subscribe(models.One(1))

	c.Unsubscribe(context.Background(), models.One(1))

	assert.Empty(t, c.Desired())
	assert.Equal(t, []models.Request[int]{models.One(1)}, conn.unsubscribed)
}

func TestController_RunTwice(t *testing.T) {
	conn := &fakeConnector{statuses: []models.ConnectStatus{models.ConnectConnected}}
	c := newTestController(conn, &fakeTimers{}, testRealtimeConfig)

	startController(t, c)
	require.Eventually(t, func() bool { return c.State() == StateConnected }, waitFor, tick)

	assert.ErrorIs(t, c.Run(context.Background()), ErrAlreadyRunning)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", State(42).String())
}
