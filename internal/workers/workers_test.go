// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ── Workers ──────────────────────────────────────────────────────────────────

type blockingWorker struct {
	started chan struct{}
	stopped atomic.Bool
}

func (w *blockingWorker) Run(ctx context.Context) {
	close(w.started)
	<-ctx.Done()
	w.stopped.Store(true)
}

func TestWorkers_RunWaitsForAllWorkers(t *testing.T) {
	w1 := &blockingWorker{started: make(chan struct{})}
	w2 := &blockingWorker{started: make(chan struct{})}
	ws := &Workers{workers: []Worker{w1, w2}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	<-w1.started
	<-w2.started
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Workers.Run did not return after cancel")
	}
	assert.True(t, w1.stopped.Load())
	assert.True(t, w2.stopped.Load())
}

func TestWorkers_RunWithoutWorkers(t *testing.T) {
	(&Workers{}).Run(context.Background())
}

type nopSyncService struct{}

func (nopSyncService) Pull(context.Context, int64, models.PullRequest) (models.PullResponse, error) {
	return models.PullResponse{}, nil
}

func (nopSyncService) Push(context.Context, int64, models.PushRequest) (models.PushAck, error) {
	return models.PushAck{}, nil
}

func (nopSyncService) PruneTombstones(context.Context) (int64, error) { return 0, nil }

func TestNewWorkers(t *testing.T) {
	ws := NewWorkers(&service.Services{SyncService: nopSyncService{}}, config.Workers{PruneInterval: time.Hour}, logger.Nop())

	require.Len(t, ws.workers, 1)
	pruner, ok := ws.workers[0].(*TombstonePruner)
	require.True(t, ok)
	assert.Equal(t, time.Hour, pruner.interval)
}

// ── TombstonePruner ──────────────────────────────────────────────────────────

type countingPruner struct {
	calls chan struct{}
	err   error
}

func (p *countingPruner) PruneTombstones(context.Context) (int64, error) {
	p.calls <- struct{}{}
	return 3, p.err
}

func TestTombstonePruner_PrunesAtStartAndOnTick(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "successful prunes"},
		{name: "failing prunes keep the loop alive", err: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &countingPruner{calls: make(chan struct{}), err: tt.err}
			pruner := NewTombstonePruner(p, 10*time.Millisecond, logger.Nop())

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				pruner.Run(ctx)
				close(done)
			}()

			for i := 0; i < 3; i++ {
				select {
				case <-p.calls:
				case <-time.After(time.Second):
					t.Fatalf("prune %d did not happen", i+1)
				}
			}

			cancel()
			for {
				select {
				case <-p.calls:
					continue
				case <-done:
				}
				break
			}
		})
	}
}

func TestTombstonePruner_DisabledByZeroInterval(t *testing.T) {
	p := &countingPruner{calls: make(chan struct{}, 1)}
	pruner := NewTombstonePruner(p, 0, logger.Nop())

	pruner.Run(context.Background())

	assert.Empty(t, p.calls)
}
