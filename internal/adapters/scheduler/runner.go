// Package scheduler triggers recurring job runs on cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/target/accessjobs/config"
	"github.com/target/accessjobs/internal/domain/model"
	"github.com/target/accessjobs/internal/service"
	"golang.org/x/sync/errgroup"
)

// JobTrigger starts one run of a job kind. *service.JobRunnerService satisfies it.
type JobTrigger interface {
	Run(ctx context.Context, kind model.JobKind, req model.RunRequest) (*model.JobRunResult, error)
}

var _ JobTrigger = (*service.JobRunnerService)(nil)

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	Trigger JobTrigger             // Required
	Config  config.SchedulerConfig // Required: cron spec per kind
	Logger  *slog.Logger           // Optional
}

// Runner owns a cron scheduler with one entry per configured job kind.
type Runner struct {
	// ctx parents scheduled runs; Run replaces it before the cron starts.
	ctx        context.Context
	trigger    JobTrigger
	cron       *cron.Cron
	kinds      []model.JobKind
	runTimeout time.Duration
	runOnStart bool
	logger     *slog.Logger
}

// NewRunner validates the cron specs and registers one entry per kind with a non-empty spec.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.Trigger == nil {
		return nil, errors.New("job trigger is required")
	}
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		ctx:        context.Background(),
		trigger:    opts.Trigger,
		cron:       cron.New(),
		runTimeout: cfg.RunTimeout,
		runOnStart: cfg.RunOnStart,
		logger:     logger.With("component", "scheduler"),
	}

	specs := []struct {
		kind model.JobKind
		spec string
	}{
		{model.JobKindNotification, cfg.NotificationCron},
		{model.JobKindRevoke, cfg.RevokeCron},
	}
	for _, s := range specs {
		if s.spec == "" {
			r.logger.Info("job kind not scheduled", "job_kind", s.kind)
			continue
		}
		kind := s.kind
		if _, err := r.cron.AddFunc(s.spec, func() { r.runOnce(r.ctx, kind) }); err != nil {
			return nil, fmt.Errorf("invalid cron expression %q for %s: %w", s.spec, kind, err)
		}
		r.kinds = append(r.kinds, kind)
	}
	if len(r.kinds) == 0 {
		return nil, errors.New("no job kinds are scheduled")
	}

	return r, nil
}

// Kinds returns the scheduled job kinds.
func (r *Runner) Kinds() []model.JobKind {
	return r.kinds
}

// Run starts the cron scheduler and blocks until ctx is cancelled, then waits for
// in-flight runs to finish. Returns nil on graceful shutdown.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting scheduler", "job_kinds", r.kinds)

	if r.runOnStart {
		r.TriggerAll(ctx)
	}

	r.ctx = ctx
	r.cron.Start()
	<-ctx.Done()

	r.logger.InfoContext(ctx, "scheduler stopping", "reason", ctx.Err())
	<-r.cron.Stop().Done()

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil
	}
	return ctx.Err()
}

// TriggerAll runs every scheduled kind concurrently and waits for all of them.
func (r *Runner) TriggerAll(ctx context.Context) {
	var g errgroup.Group
	for _, kind := range r.kinds {
		g.Go(func() error {
			r.runOnce(ctx, kind)
			return nil
		})
	}
	_ = g.Wait()
}

// runOnce performs one scheduled run. A lock conflict means another replica got
// there first and is not an error.
func (r *Runner) runOnce(parent context.Context, kind model.JobKind) {
	ctx, cancel := context.WithTimeout(parent, r.runTimeout)
	defer cancel()

	res, err := r.trigger.Run(ctx, kind, model.RunRequest{})
	var conflict *service.LockConflictError
	switch {
	case errors.As(err, &conflict):
		r.logger.InfoContext(ctx, "scheduled run skipped, job already running", "job_kind", kind, "active", conflict.Active)
	case err != nil:
		r.logger.ErrorContext(ctx, "scheduled run failed", "job_kind", kind, "error", err)
	default:
		r.logger.InfoContext(ctx, "scheduled run finished",
			"job_kind", kind,
			"job_id", res.JobID,
			"processed", res.ProcessedCount,
			"failed", res.FailedCount,
		)
	}
}
