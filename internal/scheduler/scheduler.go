// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: audit log retention and
// GeoIP database refresh.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/eventhub/internal/geoip"
	"github.com/olegiv/eventhub/internal/service"
)

// Scheduler owns the cron instance and the jobs registered on it.
type Scheduler struct {
	cron      *cron.Cron
	audit     *service.AuditService
	geo       *geoip.Resolver
	retention time.Duration
	logger    *slog.Logger
}

// New creates a scheduler. geo may be nil when GeoIP is not configured;
// retention is how long audit entries are kept.
func New(audit *service.AuditService, geo *geoip.Resolver, retention time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		audit:     audit,
		geo:       geo,
		retention: retention,
		logger:    logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	// Prune old audit entries nightly.
	if _, err := s.cron.AddFunc("30 3 * * *", s.pruneAuditLog); err != nil {
		return err
	}

	// Pick up refreshed GeoIP databases without a restart.
	if s.geo != nil {
		if _, err := s.cron.AddFunc("0 * * * *", s.reloadGeoIP); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) pruneAuditLog() {
	removed, err := s.audit.PruneOlderThan(context.Background(), s.retention)
	if err != nil {
		s.logger.Error("audit log pruning failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("pruned audit log", "removed", removed, "retention", s.retention)
	}
}

func (s *Scheduler) reloadGeoIP() {
	if err := s.geo.Reload(); err != nil {
		s.logger.Warn("geoip reload failed", "error", err)
	}
}
