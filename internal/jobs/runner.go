// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

type Job func(ctx context.Context) error

// Runner schedules jobs on cron specs. A job never overlaps with itself.
type Runner struct {
	ctx    context.Context
	cron   *cron.Cron
	logger *slog.Logger
}

func New(ctx context.Context, logger *slog.Logger) *Runner {
	return &Runner{
		ctx:    ctx,
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: logger,
	}
}

// Schedule registers fn on a cron schedule, e.g. "@every 5m" or "*/10 * * * *".
func (r *Runner) Schedule(schedule string, name string, fn Job) error {
	_, err := r.cron.AddFunc(schedule, func() { r.run(name, fn) })
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	return nil
}

func (r *Runner) run(name string, fn Job) {
	if r.ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := fn(r.ctx); err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.logger.Error("Background job failed", slog.String("job", name), slog.String("error", err.Error()))
	}
	jobRuns.WithLabelValues(name).Inc()
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (r *Runner) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
