package workers

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
)

type Workers struct {
	workers []Worker
}

// NewWorkers builds the server's background jobs.
func NewWorkers(services *service.Services, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewTombstonePruner(services.SyncService, cfg.PruneInterval, logger),
		},
	}
}

// Run starts every worker in its own goroutine and waits for all of them to
// return after ctx is cancelled.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			worker.Run(ctx)
		}(worker)
	}
	wg.Wait()
}
