// Copyright (c) 2025-2026 IEQ Gestão
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic database maintenance.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ieqgestao/ekklesia-go/internal/store"
)

// Scheduler handles recurring maintenance: expired session purging and
// event log pruning.
type Scheduler struct {
	queries        *store.Queries
	cron           *cron.Cron
	logger         *slog.Logger
	eventRetention time.Duration
}

// New creates a new scheduler instance. eventRetentionDays bounds how
// long event log entries are kept.
func New(db *sql.DB, logger *slog.Logger, eventRetentionDays int) *Scheduler {
	return &Scheduler{
		queries:        store.New(db),
		cron:           cron.New(),
		logger:         logger,
		eventRetention: time.Duration(eventRetentionDays) * 24 * time.Hour,
	}
}

// Start registers the maintenance jobs and begins the cron loop.
// Sessions are purged hourly; events are pruned nightly.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", s.purgeSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) purgeSessions() {
	n, err := s.queries.PurgeExpiredSessions(context.Background())
	if err != nil {
		s.logger.Error("purging expired sessions", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", "count", n)
	}
}

func (s *Scheduler) pruneEvents() {
	if s.eventRetention <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.eventRetention)
	n, err := s.queries.PruneEvents(context.Background(), cutoff)
	if err != nil {
		s.logger.Error("pruning events", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("pruned old events", "count", n, "cutoff", cutoff)
	}
}
