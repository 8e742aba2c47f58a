// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui is the terminal sync inspector. It pulls from the server
// through an [adapter.SyncAdapter] and shows what each pull returned per
// collection.
package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/go-bankroll-sync/internal/adapter"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/models"
)

var ErrNilAdapter = errors.New("sync adapter is nil")

type TUI struct {
	adapter   adapter.SyncAdapter
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(syncAdapter adapter.SyncAdapter, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	if syncAdapter == nil {
		return nil, ErrNilAdapter
	}
	return &TUI{adapter: syncAdapter, buildInfo: buildInfo, logger: logger}, nil
}

// Run blocks until the user quits or ctx is cancelled.
func (t *TUI) Run(ctx context.Context) error {
	model := newInspectorModel(ctx, t.adapter, t.buildInfo, t.logger)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
