package client

import "time"

// manualScheduler never runs a sync on its own. One-shot commands sync
// explicitly so they can report the result.
type manualScheduler struct{}

func (manualScheduler) Trigger(time.Duration) bool { return true }
func (manualScheduler) Stop()                      {}
func (manualScheduler) Wait()                      {}
