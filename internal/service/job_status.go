package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
)

// JobStatusServiceOptions groups dependencies for JobStatusService.
type JobStatusServiceOptions struct {
	Locks   core.JobLockRepository       // Required
	History core.JobRunHistoryRepository // Optional: enables History
	Now     func() time.Time             // Optional
}

// JobStatusService answers read-only questions about job runs.
type JobStatusService struct {
	locks   core.JobLockRepository
	history core.JobRunHistoryRepository
	now     func() time.Time
}

// ErrHistoryUnavailable is returned by History when no history repository is wired.
var ErrHistoryUnavailable = errors.New("job run history is not available")

// NewJobStatusService constructs a JobStatusService.
func NewJobStatusService(opts JobStatusServiceOptions) *JobStatusService {
	if opts.Locks == nil {
		panic("JobLockRepository is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &JobStatusService{locks: opts.Locks, history: opts.History, now: now}
}

// Status reports whether kind is locked by a non-stale run.
func (s *JobStatusService) Status(ctx context.Context, kind model.JobKind) (*model.JobLockStatus, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobKind, kind)
	}
	run, err := s.locks.GetActiveHolder(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("get active holder: %w", err)
	}
	if !holdsLock(run, s.now()) {
		return &model.JobLockStatus{}, nil
	}
	return &model.JobLockStatus{Locked: true, ActiveJob: run.Holder()}, nil
}

// holdsLock reports whether run still blocks new runs of its kind at now.
func holdsLock(run *model.JobRun, now time.Time) bool {
	if run == nil || run.Status.Terminal() {
		return false
	}
	return !job.IsStale(run.StartedAt, now)
}

// History returns the most recent runs of kind, newest first.
func (s *JobStatusService) History(ctx context.Context, kind model.JobKind, limit int) ([]*model.JobRun, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobKind, kind)
	}
	if s.history == nil {
		return nil, ErrHistoryUnavailable
	}
	runs, err := s.history.ListRecent(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("list job runs: %w", err)
	}
	return runs, nil
}
