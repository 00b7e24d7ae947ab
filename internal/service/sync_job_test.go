// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/stretchr/testify/assert"
)

// spyTriggerer counts triggers and can refuse them.
type spyTriggerer struct {
	calls  atomic.Int64
	refuse bool
}

func (s *spyTriggerer) Trigger(time.Duration) bool {
	s.calls.Add(1)
	return !s.refuse
}

func TestSyncJob_Start_Triggers(t *testing.T) {
	spy := &spyTriggerer{}
	job := NewSyncJob(spy, 10*time.Millisecond, logger.Nop())

	// about five ticks in 55ms
	job.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

func TestSyncJob_RefusedTriggerKeepsTicking(t *testing.T) {
	spy := &spyTriggerer{refuse: true}
	job := NewSyncJob(spy, 10*time.Millisecond, logger.Nop())

	job.Start(context.Background())
	time.Sleep(45 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(2))
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spyTriggerer{}
	job := NewSyncJob(spy, 10*time.Millisecond, logger.Nop())

	job.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	afterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, afterStop, spy.calls.Load(), "no ticks after Stop")
}

func TestSyncJob_Stop_Idempotent(t *testing.T) {
	job := NewSyncJob(&spyTriggerer{}, 10*time.Millisecond, logger.Nop())

	assert.NotPanics(t, job.Stop, "Stop before Start")

	job.Start(context.Background())
	job.Stop()
	assert.NotPanics(t, job.Stop)
}

func TestSyncJob_DefaultInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		spy := &spyTriggerer{}
		job := NewSyncJob(spy, interval, logger.Nop())
		assert.Equal(t, DefaultSyncInterval, job.interval)

		job.Start(context.Background())
		time.Sleep(20 * time.Millisecond)
		job.Stop()

		assert.Zero(t, spy.calls.Load())
	}
}

func TestSyncJob_Run_ReturnsOnCancel(t *testing.T) {
	spy := &spyTriggerer{}
	job := NewSyncJob(spy, 5*time.Millisecond, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- job.Run(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
	assert.Positive(t, spy.calls.Load())
}
