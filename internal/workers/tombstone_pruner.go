// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
)

// Pruner is the part of the sync service the pruning job needs.
type Pruner interface {
	PruneTombstones(ctx context.Context) (int64, error)
}

// TombstonePruner hard-deletes expired tombstones once at start and then
// every interval.
type TombstonePruner struct {
	pruner   Pruner
	interval time.Duration
	logger   *logger.Logger
}

func NewTombstonePruner(pruner Pruner, interval time.Duration, logger *logger.Logger) *TombstonePruner {
	return &TombstonePruner{
		pruner:   pruner,
		interval: interval,
		logger:   logger,
	}
}

// Run implements [Worker]. A non-positive interval disables the job.
func (p *TombstonePruner) Run(ctx context.Context) {
	if p.interval <= 0 {
		p.logger.Warn().Str("func", "TombstonePruner.Run").Msg("tombstone pruning disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.prune(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Str("func", "TombstonePruner.Run").Msg("tombstone pruner stopped")
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *TombstonePruner) prune(ctx context.Context) {
	n, err := p.pruner.PruneTombstones(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Err(err).Str("func", "TombstonePruner.prune").Msg("failed to prune tombstones")
		}
		return
	}
	p.logger.Debug().Str("func", "TombstonePruner.prune").Int64("pruned", n).Send()
}
