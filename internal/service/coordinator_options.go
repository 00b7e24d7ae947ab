package service

import (
	"context"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// DefaultPullBatchSize caps how many ids a single pull call asks for.
const DefaultPullBatchSize = 50

// maxConcurrentPulls bounds the fan-out of one pull phase.
const maxConcurrentPulls = 4

// CoordinatorOption configures a [Coordinator].
type CoordinatorOption func(*coordinatorOptions)

type coordinatorOptions struct {
	entryLifetime time.Duration
	maxEntries    int
	pullBatchSize int
	now           func() time.Time
	scheduler     func(run func(ctx context.Context) error) SyncScheduler
	logger        *logger.Logger
}

// WithCacheLimits sets the entry lifetime and capacity. They override the
// limits stored in a restored snapshot. Zero keeps the current value.
func WithCacheLimits(entryLifetime time.Duration, maxEntries int) CoordinatorOption {
	return func(o *coordinatorOptions) {
		o.entryLifetime = entryLifetime
		o.maxEntries = maxEntries
	}
}

// WithPullBatchSize caps the ids per pull call.
func WithPullBatchSize(n int) CoordinatorOption {
	return func(o *coordinatorOptions) {
		if n > 0 {
			o.pullBatchSize = n
		}
	}
}

// WithClock replaces time.Now in the cache.
func WithClock(now func() time.Time) CoordinatorOption {
	return func(o *coordinatorOptions) {
		o.now = now
	}
}

// WithScheduler replaces the default [Scheduler]. newScheduler receives the
// coordinator's sync function.
func WithScheduler(newScheduler func(run func(ctx context.Context) error) SyncScheduler) CoordinatorOption {
	return func(o *coordinatorOptions) {
		o.scheduler = newScheduler
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) CoordinatorOption {
	return func(o *coordinatorOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WriteOption configures [Coordinator.Write] and [Coordinator.Update].
type WriteOption func(*intentOptions)

// DeleteOption configures [Coordinator.Delete].
type DeleteOption func(*intentOptions)

type intentOptions struct {
	remote bool
	delay  time.Duration
}

// PushAfter marks the written entity for push and schedules a sync after d.
func PushAfter(d time.Duration) WriteOption {
	return func(o *intentOptions) {
		o.remote = true
		o.delay = d
	}
}

// PopAfter marks the deleted entity for remote deletion and schedules a
// sync after d.
func PopAfter(d time.Duration) DeleteOption {
	return func(o *intentOptions) {
		o.remote = true
		o.delay = d
	}
}
