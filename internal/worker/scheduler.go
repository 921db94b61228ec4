package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler runs a refresh job on a fixed interval until the context is
// cancelled. The first run happens immediately.
type Scheduler struct {
	job      *RefreshJob
	interval time.Duration
	logger   zerolog.Logger
}

// NewScheduler creates a scheduler. A non-positive interval defaults to
// 10 minutes.
func NewScheduler(job *RefreshJob, interval time.Duration, logger zerolog.Logger) *Scheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &Scheduler{job: job, interval: interval, logger: logger}
}

// Run blocks, executing the job until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Msg("refresh scheduler started")

	s.job.Run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.job.Run(ctx)
		}
	}
}
