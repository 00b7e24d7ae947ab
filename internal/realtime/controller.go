// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package realtime keeps a push channel to the remote side alive and the
// wanted subscriptions registered on it.
//
// A [Controller] runs one event loop that owns every timer: the heartbeat
// ticker, the connecting poll and the reconnect backoff. Callers only change
// the desired subscription set or report network availability; the loop
// reconciles the connector with them.
package realtime

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/MKhiriev/go-gravity/models"
	"github.com/sethvargo/go-retry"
)

// Connector is the realtime part of a remote delegate.
type Connector[ID cmp.Ordered] interface {
	Connect(ctx context.Context, heartbeat bool) models.ConnectStatus
	Subscribe(ctx context.Context, req models.Request[ID]) bool
	Unsubscribe(ctx context.Context, req models.Request[ID])
}

// Controller drives a [Connector] through connect, heartbeat and reconnect.
//
// After MaxRetries failed reconnects the controller turns dormant and waits
// for NetworkChanged(true). A connector reporting unsupported is never
// retried.
type Controller[ID cmp.Ordered] struct {
	connector Connector[ID]

	heartbeatInterval time.Duration
	pollInterval      time.Duration
	newBackoff        func() retry.Backoff
	after             func(time.Duration) <-chan time.Time
	newTicker         func(time.Duration) Ticker

	mu           sync.Mutex
	state        State
	dormant      bool
	unsupported  bool
	online       bool
	netSignal    bool
	desired      map[string]models.Request[ID]
	acknowledged map[string]models.Request[ID]

	running atomic.Bool
	wake    chan struct{}

	logger *logger.Logger
}

// NewController creates a stopped controller. Run starts it.
func NewController[ID cmp.Ordered](connector Connector[ID], cfg config.ClientRealtime, logger *logger.Logger, opts ...Option) *Controller[ID] {
	o := options{
		after: time.After,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{t: time.NewTicker(d)}
		},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Controller[ID]{
		connector:         connector,
		heartbeatInterval: positiveOr(cfg.HeartbeatInterval, DefaultHeartbeatInterval),
		pollInterval:      positiveOr(cfg.PollInterval, DefaultPollInterval),
		newBackoff:        backoffFactory(cfg),
		after:             o.after,
		newTicker:         o.newTicker,
		online:            true,
		desired:           make(map[string]models.Request[ID]),
		acknowledged:      make(map[string]models.Request[ID]),
		wake:              make(chan struct{}, 1),
		logger:            logger,
	}
}

// Subscribe adds req to the desired set. It is registered with the
// connector on the next reconcile, right away when connected.
func (c *Controller[ID]) Subscribe(req models.Request[ID]) {
	c.mu.Lock()
	c.desired[req.Fingerprint()] = req
	c.mu.Unlock()

	c.nudge()
}

// Unsubscribe drops req from the desired set and tells the connector at
// once.
func (c *Controller[ID]) Unsubscribe(ctx context.Context, req models.Request[ID]) {
	fp := req.Fingerprint()

	c.mu.Lock()
	delete(c.desired, fp)
	delete(c.acknowledged, fp)
	c.mu.Unlock()

	c.connector.Unsubscribe(ctx, req)
}

// NetworkChanged reports network availability. Losing the network suspends
// the heartbeat but keeps the state and the acknowledged subscriptions.
// Every report of an available network clears dormancy and triggers a
// connect attempt with a fresh backoff, whatever the current state.
func (c *Controller[ID]) NetworkChanged(available bool) {
	c.mu.Lock()
	c.online = available
	c.netSignal = true
	c.mu.Unlock()

	c.nudge()
}

// State returns the current connection state.
func (c *Controller[ID]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dormant reports whether reconnecting gave up until the network returns.
func (c *Controller[ID]) Dormant() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dormant
}

// Desired returns the requests the caller wants subscribed, sorted by
// fingerprint.
func (c *Controller[ID]) Desired() []models.Request[ID] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedRequests(c.desired)
}

// Acknowledged returns the requests the connector accepted on the current
// connection, sorted by fingerprint.
func (c *Controller[ID]) Acknowledged() []models.Request[ID] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return sortedRequests(c.acknowledged)
}

// Run connects and keeps the connection until ctx is done. It returns
// [ErrAlreadyRunning] when another Run is active.
func (c *Controller[ID]) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	l := &loop[ID]{c: c, backoff: c.newBackoff()}
	defer l.stopHeartbeat()

	l.connect(ctx)
	for {
		select {
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return nil
		case <-l.retry:
			l.retry = nil
			l.connect(ctx)
		case <-l.heartbeatC():
			l.heartbeat(ctx)
		case <-c.wake:
			l.wake(ctx)
		}
	}
}

func (c *Controller[ID]) nudge() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller[ID]) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != s {
		c.logger.Debug().Str("func", "*Controller.setState").Stringer("from", c.state).Stringer("to", s).Msg("realtime state changed")
	}
	c.state = s
}

// loop is the state only the Run goroutine touches.
type loop[ID cmp.Ordered] struct {
	c *Controller[ID]

	backoff retry.Backoff
	retry   <-chan time.Time
	ticker  Ticker
}

func (l *loop[ID]) heartbeatC() <-chan time.Time {
	if l.ticker == nil {
		return nil
	}
	return l.ticker.C()
}

func (l *loop[ID]) stopHeartbeat() {
	if l.ticker != nil {
		l.ticker.Stop()
		l.ticker = nil
	}
}

func (l *loop[ID]) connect(ctx context.Context) {
	c := l.c

	c.mu.Lock()
	skip := c.unsupported || !c.online || c.dormant
	c.mu.Unlock()
	if skip {
		return
	}

	status := c.connector.Connect(ctx, false)
	switch status {
	case models.ConnectConnected:
		l.connected(ctx)

	case models.ConnectConnecting:
		c.setState(StateConnecting)
		l.retry = c.after(c.pollInterval)

	case models.ConnectUnsupported:
		l.stopHeartbeat()
		c.mu.Lock()
		c.unsupported = true
		clear(c.acknowledged)
		c.mu.Unlock()
		c.setState(StateDisconnected)
		c.logger.Info().Str("func", "*Controller.connect").Msg("remote side has no realtime channel")

	default:
		l.disconnected()
	}
}

func (l *loop[ID]) connected(ctx context.Context) {
	c := l.c

	c.setState(StateConnected)
	l.backoff = c.newBackoff()
	l.retry = nil
	if l.ticker == nil {
		l.ticker = c.newTicker(c.heartbeatInterval)
	}
	l.reconcile(ctx)
}

func (l *loop[ID]) disconnected() {
	c := l.c

	l.stopHeartbeat()
	c.mu.Lock()
	clear(c.acknowledged)
	c.mu.Unlock()
	c.setState(StateDisconnected)

	delay, stop := l.backoff.Next()
	if stop {
		c.mu.Lock()
		c.dormant = true
		c.mu.Unlock()
		c.logger.Warn().Str("func", "*Controller.disconnected").Msg("reconnect attempts exhausted, waiting for the network to change")
		return
	}

	c.logger.Debug().Str("func", "*Controller.disconnected").Dur("delay", delay).Msg("reconnect scheduled")
	l.retry = c.after(delay)
}

func (l *loop[ID]) heartbeat(ctx context.Context) {
	c := l.c

	if c.connector.Connect(ctx, true) == models.ConnectConnected {
		l.reconcile(ctx)
		return
	}

	c.logger.Info().Str("func", "*Controller.heartbeat").Msg("heartbeat failed, reconnecting")
	l.stopHeartbeat()
	c.mu.Lock()
	clear(c.acknowledged)
	c.mu.Unlock()
	c.setState(StateDisconnected)
	l.backoff = c.newBackoff()
	l.connect(ctx)
}

func (l *loop[ID]) wake(ctx context.Context) {
	c := l.c

	c.mu.Lock()
	netSignal, online := c.netSignal, c.online
	c.netSignal = false
	if netSignal && online {
		c.dormant = false
	}
	c.mu.Unlock()

	switch {
	case !online:
		if l.ticker != nil {
			l.stopHeartbeat()
			c.logger.Info().Str("func", "*Controller.wake").Msg("network lost, heartbeat suspended")
		}
	case netSignal:
		l.backoff = c.newBackoff()
		l.retry = nil
		c.logger.Info().Str("func", "*Controller.wake").Msg("network available, connecting")
		l.connect(ctx)
	case c.State() == StateConnected:
		l.reconcile(ctx)
	}
}

// reconcile subscribes every desired request not yet acknowledged.
func (l *loop[ID]) reconcile(ctx context.Context) {
	c := l.c

	c.mu.Lock()
	var missing []models.Request[ID]
	for _, fp := range slices.Sorted(maps.Keys(c.desired)) {
		if _, ok := c.acknowledged[fp]; !ok {
			missing = append(missing, c.desired[fp])
		}
	}
	c.mu.Unlock()

	for _, req := range missing {
		if !c.connector.Subscribe(ctx, req) {
			continue
		}

		fp := req.Fingerprint()
		c.mu.Lock()
		_, stillWanted := c.desired[fp]
		if stillWanted {
			c.acknowledged[fp] = req
		}
		c.mu.Unlock()

		// dropped while the call was in flight
		if !stillWanted {
			c.connector.Unsubscribe(ctx, req)
		}
	}
}

func sortedRequests[ID cmp.Ordered](m map[string]models.Request[ID]) []models.Request[ID] {
	out := make([]models.Request[ID], 0, len(m))
	for _, fp := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[fp])
	}
	return out
}
