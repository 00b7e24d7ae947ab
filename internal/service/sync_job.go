package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// DefaultSyncInterval is used when a job is created with a non-positive
// interval.
const DefaultSyncInterval = 5 * time.Minute

// SyncJob triggers a sync on a ticker, independent of the realtime channel.
// The job is idle until Start or Run is called.
type SyncJob struct {
	target   Triggerer
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewSyncJob creates a job that calls target.Trigger(0) every interval.
func NewSyncJob(target Triggerer, interval time.Duration, logger *logger.Logger) *SyncJob {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &SyncJob{target: target, interval: interval, logger: logger}
}

// Start stops any previously running loop, then launches a goroutine that
// triggers a sync every interval. The goroutine exits when ctx is cancelled
// or Stop is called.
func (j *SyncJob) Start(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				if !j.target.Trigger(0) {
					j.logger.Debug().Str("func", "*SyncJob.Start").Msg("sync already scheduled, tick skipped")
				}
			}
		}
	}()
}

// Stop cancels the loop and blocks until it has exited. Safe to call when
// the job is not running.
func (j *SyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}

// Run starts the job and blocks until ctx is done.
func (j *SyncJob) Run(ctx context.Context) error {
	j.Start(ctx)
	<-ctx.Done()
	j.Stop()
	return nil
}
