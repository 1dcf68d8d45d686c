package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/taskhive/taskhive/pkg/logger"
)

// CleanupScheduler periodically deletes refresh-token rows whose expiry has
// passed. Expired rows can never validate again, so this is pure retention
// hygiene and runs off the request path.
type CleanupScheduler struct {
	store *RefreshTokenStore
	cron  *cron.Cron
}

func NewCleanupScheduler(store *RefreshTokenStore) *CleanupScheduler {
	return &CleanupScheduler{
		store: store,
		cron:  cron.New(),
	}
}

// Start schedules the nightly purge. Errors adding the entry are
// programming errors (bad cron expression) and are fatal.
func (s *CleanupScheduler) Start() {
	if _, err := s.cron.AddFunc("30 3 * * *", s.run); err != nil {
		logger.Fatalf("failed to schedule refresh token cleanup: %v", err)
	}
	s.cron.Start()
	logger.Info().Msg("refresh token cleanup scheduler started")
}

func (s *CleanupScheduler) Stop() {
	s.cron.Stop()
}

func (s *CleanupScheduler) run() {
	purged, err := s.store.PurgeExpired(time.Now())
	if err != nil {
		logger.Error().Err(err).Msg("refresh token purge failed")
		return
	}
	if purged > 0 {
		logger.Info().Int64("purged", purged).Msg("expired refresh tokens removed")
	}
}
