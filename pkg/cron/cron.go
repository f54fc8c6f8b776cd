/*
Copyright 2026, Aleksei Sviridkin.

SPDX-License-Identifier: BSD-3-Clause
*/

// Package cron schedules periodic jobs for the long-running server.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/robfig/cron/v3"
)

// Scheduler is an interface for cron scheduling operations.
type Scheduler interface {
	AddFunc(spec string, cmd func()) (cron.EntryID, error)
	Remove(id cron.EntryID)
	Start()
	Stop()
	Entries() []cron.Entry
}

// RealScheduler wraps robfig/cron for production use.
type RealScheduler struct {
	*cron.Cron
}

// NewRealScheduler creates a production cron scheduler. The parser accepts
// standard five-field expressions and descriptors like "@every 5m".
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{
		Cron: cron.New(),
	}
}

// Start starts the cron scheduler.
func (r *RealScheduler) Start() {
	r.Cron.Start()
}

// Stop stops the cron scheduler and waits for running jobs.
func (r *RealScheduler) Stop() {
	ctx := r.Cron.Stop()
	<-ctx.Done()
}

// Job is a unit of periodic work. It receives the runner's context.
type Job func(ctx context.Context) error

// Runner owns a Scheduler for the lifetime of a context.
// Jobs registered on it run with that context and have their failures logged.
type Runner struct {
	scheduler Scheduler
	logger    *slog.Logger
	ctx       context.Context //nolint:containedctx // set once by Start, read by scheduled jobs
	ready     chan struct{}
}

// NewRunner creates a Runner. A nil logger falls back to slog.Default.
func NewRunner(s Scheduler, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{
		scheduler: s,
		logger:    logger,
		ctx:       context.Background(),
		ready:     make(chan struct{}),
	}
}

// Schedule registers job under name on spec. Register jobs before Start.
func (r *Runner) Schedule(name, spec string, job Job) (cron.EntryID, error) {
	if job == nil {
		return 0, errors.Newf("job %s has no function", name)
	}

	id, err := r.scheduler.AddFunc(spec, func() {
		r.run(name, job)
	})
	if err != nil {
		return 0, errors.Wrapf(err, "invalid schedule %q for job %s", spec, name)
	}

	r.logger.Info("Scheduled job", "job", name, "schedule", spec)

	return id, nil
}

func (r *Runner) run(name string, job Job) {
	start := time.Now()

	if err := job(r.ctx); err != nil {
		r.logger.Error("Scheduled job failed", "job", name, "error", err)

		return
	}

	r.logger.Debug("Scheduled job finished", "job", name, "duration", time.Since(start))
}

// Start starts the scheduler, blocks until ctx is done, then stops it.
func (r *Runner) Start(ctx context.Context) error {
	r.ctx = ctx
	r.scheduler.Start()
	close(r.ready)

	<-ctx.Done()
	r.scheduler.Stop()

	return nil
}

// Ready is closed once Start has started the scheduler.
func (r *Runner) Ready() <-chan struct{} {
	return r.ready
}
