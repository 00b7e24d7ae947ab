package workers

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-gravity/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Workers runs named workers in one errgroup.
type Workers struct {
	names   []string
	workers []Worker

	logger *logger.Logger
}

func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers w under name. Workers added after Run has started are not
// run.
func (w *Workers) Add(name string, worker Worker) *Workers {
	w.names = append(w.names, name)
	w.workers = append(w.workers, worker)
	return w
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker and waits for all of them. The first worker error
// cancels the others and is returned, wrapped with the worker's name.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for i, worker := range w.workers {
		name := w.names[i]
		g.Go(func() error {
			w.logger.Debug().Str("worker", name).Msg("worker started")
			err := worker.Run(ctx)
			if err != nil {
				w.logger.Error().Err(err).Str("worker", name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", name, err)
			}
			w.logger.Debug().Str("worker", name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
