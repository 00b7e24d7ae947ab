// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
)

// Scheduler runs a sync function at most once at a time.
//
// It has a single slot: Trigger fills it and the task waits for its delay,
// runs, and frees the slot. Triggers that arrive while the slot is taken are
// dropped; the pending run picks up whatever intents exist when it starts.
type Scheduler struct {
	ctx context.Context
	run func(ctx context.Context) error

	mu      sync.Mutex
	busy    bool
	stopped bool
	stop    chan struct{}
	wg      sync.WaitGroup

	logger *logger.Logger
}

// NewScheduler creates a Scheduler that calls run with ctx. Stop does not
// cancel ctx, so a sync already talking to the remote side finishes.
func NewScheduler(ctx context.Context, run func(ctx context.Context) error, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		ctx:    ctx,
		run:    run,
		stop:   make(chan struct{}),
		logger: logger,
	}
}

// Trigger schedules a run after delay. It reports false when a run is
// already scheduled or in flight, or the scheduler was stopped.
func (s *Scheduler) Trigger(delay time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy || s.stopped {
		return false
	}
	s.busy = true
	s.wg.Add(1)
	go s.task(delay)
	return true
}

func (s *Scheduler) task(delay time.Duration) {
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()

		select {
		case <-t.C:
		case <-s.stop:
			return
		case <-s.ctx.Done():
			return
		}
	}

	if err := s.run(s.ctx); err != nil {
		s.logger.Err(err).Str("func", "*Scheduler.task").Msg("scheduled sync failed")
	}
}

// Stop cancels a pending wait and refuses further triggers. It blocks until
// an in-flight run returns.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stop)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Wait blocks until the scheduled or in-flight run, if any, has finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}
