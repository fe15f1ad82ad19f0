// Package scheduler runs a set of named periodic jobs concurrently for
// the lifetime of one meeting. Each meeting gets its own Scheduler;
// cancelling its context stops that meeting's jobs and no others.
package scheduler

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/romabozhanovgithub/callyfy/internal/logger"
)

// Job is one independently-paced unit of repeated work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler owns a set of periodic jobs.
type Scheduler struct {
	jobs   []Job
	logger logger.Logger
}

// New creates a Scheduler for the given jobs.
func New(log logger.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{
		jobs:   jobs,
		logger: log,
	}
}

// Run starts every job in its own loop and blocks until ctx is
// cancelled and all loops have exited. Each job fires immediately on
// start, then once per interval. Jobs never block each other: a slow or
// failing job only delays its own next tick.
//
// A job error is logged and the job retries on its next interval;
// transient backend failures are treated as retryable. In-flight
// actions receive the loop context and are expected to stop at their
// next suspension point once it is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		g.Go(func() error {
			return s.runJob(ctx, job)
		})
	}
	return g.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) error {
	s.logger.Debug(ctx, "Job %s started (interval %s)", job.Name, job.Interval)

	for {
		if err := job.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error(ctx, "Job %s failed: %v (retrying after %s)", job.Name, err, job.Interval)
		}

		select {
		case <-ctx.Done():
			s.logger.Debug(ctx, "Job %s stopped", job.Name)
			return ctx.Err()
		case <-time.After(job.Interval):
		}
	}
}
