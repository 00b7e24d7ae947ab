package realtime

import (
	"time"

	"github.com/MKhiriev/go-gravity/internal/config"
	"github.com/sethvargo/go-retry"
)

// Defaults used when the config leaves a value at zero.
const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultPollInterval      = time.Second
	DefaultBackoffBase       = time.Second
	DefaultBackoffMax        = time.Minute
	DefaultMaxRetries        = 7
)

// Ticker is the part of *time.Ticker the controller uses.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Option configures a [Controller].
type Option func(*options)

type options struct {
	after     func(d time.Duration) <-chan time.Time
	newTicker func(d time.Duration) Ticker
}

// WithTimers replaces time.After and time.NewTicker.
func WithTimers(after func(time.Duration) <-chan time.Time, newTicker func(time.Duration) Ticker) Option {
	return func(o *options) {
		if after != nil {
			o.after = after
		}
		if newTicker != nil {
			o.newTicker = newTicker
		}
	}
}

// backoffFactory builds a fresh reconnect schedule: base, 2*base, 4*base
// and so on, capped at max, for at most retries attempts.
func backoffFactory(cfg config.ClientRealtime) func() retry.Backoff {
	base := cfg.BackoffBase
	if base <= 0 {
		base = DefaultBackoffBase
	}
	ceiling := cfg.BackoffMax
	if ceiling < base {
		ceiling = max(DefaultBackoffMax, base)
	}
	retries := cfg.MaxRetries
	if retries == 0 {
		retries = DefaultMaxRetries
	}

	return func() retry.Backoff {
		return retry.WithMaxRetries(retries, retry.WithCappedDuration(ceiling, retry.NewExponential(base)))
	}
}

func positiveOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
