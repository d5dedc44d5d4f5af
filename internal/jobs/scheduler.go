package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"prismwriting/api/internal/audit"
	"prismwriting/api/internal/store"
)

// Scheduler runs the housekeeping that keeps the stores bounded:
// expired sessions are pruned hourly and the audit stream is trimmed
// daily.
type Scheduler struct {
	cron  *cron.Cron
	store store.CredentialStore
	cache *redis.Client
	log   zerolog.Logger
}

const auditStreamMaxLen = 100_000

func NewScheduler(credStore store.CredentialStore, cache *redis.Client, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:  cron.New(cron.WithSeconds()),
		store: credStore,
		cache: cache,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 * * * *", s.pruneSessions); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.trimAuditStream); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs, bounded by a short timeout.
func (s *Scheduler) Stop() {
	done := s.cron.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) pruneSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	removed, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("session prune failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("pruned expired sessions")
	}
}

func (s *Scheduler) trimAuditStream() {
	if s.cache == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.cache.XTrimMaxLen(ctx, audit.Stream, auditStreamMaxLen).Err(); err != nil {
		s.log.Error().Err(err).Msg("audit stream trim failed")
	}
}
