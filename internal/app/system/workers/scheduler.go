// internal/app/system/workers/scheduler.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Aatka-Saleem/fitness-testing/internal/app/system/tasks"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrNoSchedule is returned when a job has neither a cron expression nor a
// positive interval.
var ErrNoSchedule = errors.New("job has no schedule")

// ParseSchedule returns the schedule for a cron expression, or a fixed
// interval when expr is empty. Standard five-field expressions and
// descriptors such as "@hourly" or "@every 30m" are accepted.
func ParseSchedule(expr string, interval time.Duration) (cron.Schedule, error) {
	if expr = strings.TrimSpace(expr); expr != "" {
		s, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", expr, err)
		}
		return s, nil
	}
	if interval <= 0 {
		return nil, ErrNoSchedule
	}
	return cron.Every(interval), nil
}

// Runner is a background worker that runs one job on its schedule.
// A cycle never overlaps the next; a slow cycle delays the following one.
type Runner struct {
	job     tasks.Job
	sched   cron.Schedule
	timeout time.Duration
	log     *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRunner creates a runner for job. timeout bounds each cycle; zero
// leaves cycles bounded only by the parent context.
func NewRunner(job tasks.Job, timeout time.Duration, logger *zap.Logger) (*Runner, error) {
	sched, err := ParseSchedule(job.Schedule, job.Interval)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", job.Name, err)
	}
	return &Runner{
		job:     job,
		sched:   sched,
		timeout: timeout,
		log:     logger.With(zap.String("job", job.Name)),
	}, nil
}

// Start begins the schedule loop in the background.
func (r *Runner) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	r.mu.Lock()
	r.cancel = cancel
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		_ = r.Run(ctx)
	}()
	r.log.Info("background job started",
		zap.String("schedule", r.describe()))
}

// Stop cancels the loop and any cycle in progress, then waits for it.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
	r.log.Info("background job stopped")
}

// Run blocks, running the job at each scheduled time until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	for {
		now := time.Now()
		next := r.sched.Next(now)
		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			_ = r.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single cycle. Errors are logged and returned; they never
// stop the schedule. Cancellation is a normal stop and is logged at info.
func (r *Runner) RunOnce(ctx context.Context) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	err := r.job.Run(ctx)
	if errors.Is(err, context.Canceled) {
		r.log.Info("background job cancelled", zap.Duration("took", time.Since(start)))
		return err
	}
	if err != nil {
		r.log.Error("background job failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return err
	}
	r.log.Debug("background job finished", zap.Duration("took", time.Since(start)))
	return nil
}

func (r *Runner) describe() string {
	if r.job.Schedule != "" {
		return r.job.Schedule
	}
	return "every " + r.job.Interval.String()
}
