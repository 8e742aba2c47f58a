// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-bankroll-sync/internal/config"
	"github.com/MKhiriev/go-bankroll-sync/internal/logger"
	"github.com/MKhiriev/go-bankroll-sync/internal/service"
	"github.com/MKhiriev/go-bankroll-sync/internal/utils"
)

// Handler serves the REST API on top of the service layer.
type Handler struct {
	services *service.Services

	requestTimeout time.Duration
	traceIDs       *utils.UUIDGenerator

	logger *logger.Logger
}

// NewHandler constructs a Handler. A zero cfg.RequestTimeout disables the
// per-request deadline.
func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		traceIDs:       utils.NewUUIDGenerator(),
		logger:         logger,
	}
}
