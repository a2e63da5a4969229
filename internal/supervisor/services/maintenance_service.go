// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/viralforge/internal/viral"
)

// MaintenanceService periodically sweeps stale patterns and flushes dirty
// engine state to the snapshot store. It runs in the data layer of the
// supervision tree; a final flush happens at shutdown via Engine.Shutdown,
// so a missed tick never loses more than one interval of changes.
type MaintenanceService struct {
	engine   *viral.Engine
	interval time.Duration
	logger   zerolog.Logger
}

// NewMaintenanceService creates the periodic maintenance loop.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewMaintenanceService(engine *viral.Engine, interval time.Duration, logger zerolog.Logger) *MaintenanceService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &MaintenanceService{
		engine:   engine,
		interval: interval,
		logger:   logger.With().Str("component", "maintenance").Logger(),
	}
}

// Serve implements suture.Service.
func (m *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.runOnce(ctx)
		}
	}
}

// runOnce performs one maintenance pass.
func (m *MaintenanceService) runOnce(ctx context.Context) {
	removed := m.engine.Sweep(time.Now())
	if err := m.engine.SaveIfDirty(ctx); err != nil {
		m.logger.Error().Err(err).Msg("periodic snapshot save failed")
		return
	}
	m.logger.Debug().Int("swept", removed).Msg("maintenance pass completed")
}

// String implements fmt.Stringer for supervision logs.
func (m *MaintenanceService) String() string {
	return "engine-maintenance"
}
