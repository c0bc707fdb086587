// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/nudge"
	"go.uber.org/zap"
)

// Job is a unit of periodic background work. Schedule, when set, is a cron
// expression and takes precedence over Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Schedule string
	Run      func(ctx context.Context) error
}

// NudgeScanJob creates the inactivity scan job. Per-organization failures
// are handled inside the scanner; only a failure to list organizations is
// reported as a job error.
func NudgeScanJob(sc *nudge.Scanner, logger *zap.Logger, interval time.Duration, schedule string) Job {
	return Job{
		Name:     "inactivity-nudge-scan",
		Interval: interval,
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			sum, err := sc.Run(ctx)
			if errors.Is(err, nudge.ErrScanRunning) {
				logger.Info("previous nudge scan still running; skipping this cycle")
				return nil
			}
			if err != nil {
				return err
			}
			if sum.Nudged > 0 {
				logger.Debug("nudge scan wrote notifications",
					zap.String("run_id", sum.RunID),
					zap.Int("count", sum.Nudged))
			}
			return nil
		},
	}
}
