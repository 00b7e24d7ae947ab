// Package workers runs the client's background loops side by side.
//
// A [Worker] blocks until its context is done. [Workers] starts a set of
// them and stops all of them as soon as one fails.
package workers

import "context"

// Worker is a background loop. Run blocks until ctx is done or the loop
// fails.
type Worker interface {
	Run(ctx context.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context) error

// Run implements [Worker].
func (f WorkerFunc) Run(ctx context.Context) error {
	return f(ctx)
}
