// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/statementkit/statement-intake/internal/domain/intake"
	"github.com/statementkit/statement-intake/pkg/metrics"
	"github.com/statementkit/statement-intake/pkg/storage"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	sessions *intake.Manager
	storage  storage.Storage
	logger   *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(sessions *intake.Manager, fileStorage storage.Storage, logger *slog.Logger) *Scheduler {
	// Standard 5-field format, no seconds
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		sessions: sessions,
		storage:  fileStorage,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Session purge: every 10 minutes
	_, err := s.cron.AddFunc("*/10 * * * *", s.purgeExpiredSessions)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the purge (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.purgeExpiredSessions()
}

// purgeExpiredSessions drops idle sessions and removes their stored uploads.
func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	expired := s.sessions.PurgeExpired()
	if len(expired) == 0 {
		metrics.ActiveSessions.Set(float64(s.sessions.Len()))
		return
	}

	removed := 0
	failed := 0
	for _, sessionID := range expired {
		if err := s.storage.Purge(ctx, sessionID); err != nil {
			s.logger.Warn("failed to purge session uploads",
				slog.String("session_id", sessionID),
				slog.Any("error", err),
			)
			failed++
			continue
		}
		removed++
	}

	metrics.ActiveSessions.Set(float64(s.sessions.Len()))
	s.logger.Info("expired sessions purged",
		slog.Int("sessions", len(expired)),
		slog.Int("uploads_removed", removed),
		slog.Int("uploads_failed", failed),
	)
}
