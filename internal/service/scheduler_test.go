package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_CoalescesTriggers(t *testing.T) {
	var runs atomic.Int64
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	s := NewScheduler(context.Background(), func(context.Context) error {
		runs.Add(1)
		started <- struct{}{}
		<-release
		return nil
	}, logger.Nop())

	require.True(t, s.Trigger(0))
	<-started

	for range 5 {
		assert.False(t, s.Trigger(0), "slot is taken while a run is in flight")
	}

	close(release)
	s.Wait()
	assert.Equal(t, int64(1), runs.Load())

	require.True(t, s.Trigger(0), "slot is free again after the run")
	s.Wait()
	assert.Equal(t, int64(2), runs.Load())
}

func TestScheduler_DelayedTriggerHoldsSlot(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(context.Background(), func(context.Context) error {
		runs.Add(1)
		return nil
	}, logger.Nop())

	require.True(t, s.Trigger(20*time.Millisecond))
	assert.False(t, s.Trigger(0))
	assert.Zero(t, runs.Load(), "run waits for its delay")

	s.Wait()
	assert.Equal(t, int64(1), runs.Load())
}

func TestScheduler_StopCancelsPendingRun(t *testing.T) {
	var runs atomic.Int64
	s := NewScheduler(context.Background(), func(context.Context) error {
		runs.Add(1)
		return nil
	}, logger.Nop())

	require.True(t, s.Trigger(time.Hour))

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not cancel the pending wait")
	}

	assert.Zero(t, runs.Load())
	assert.False(t, s.Trigger(0), "stopped scheduler refuses triggers")
	assert.NotPanics(t, s.Stop)
}

func TestScheduler_ContextCancelSkipsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int64
	s := NewScheduler(ctx, func(context.Context) error {
		runs.Add(1)
		return nil
	}, logger.Nop())

	require.True(t, s.Trigger(time.Hour))
	cancel()
	s.Wait()

	assert.Zero(t, runs.Load())
}

func TestScheduler_RunErrorFreesSlot(t *testing.T) {
	s := NewScheduler(context.Background(), func(context.Context) error {
		return errors.New("remote down")
	}, logger.Nop())

	require.True(t, s.Trigger(0))
	s.Wait()
	assert.True(t, s.Trigger(0))
	s.Wait()
}
