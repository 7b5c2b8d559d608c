package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/model"
	"github.com/target/accessjobs/internal/observability/metrics"
	"github.com/target/accessjobs/internal/observability/statsd"
	"github.com/target/accessjobs/internal/service/batch"
)

// finishTimeout bounds the terminal lock write, which runs detached from the caller's context.
const finishTimeout = 10 * time.Second

// noActionMessage is reported when selection finds nothing to do.
const noActionMessage = "No action needed"

// JobRunnerOptions groups dependencies for JobRunnerService.
type JobRunnerOptions struct {
	Locks       core.JobLockRepository // Required
	Definitions []JobDefinition        // Required: one per job kind
	Holder      string                 // Optional: recorded as started_by
	Concurrency int                    // Optional: caps in-flight items per run
	PerItemCost time.Duration          // Optional: defaults to batch.DefaultPerItemCost
	// Hold, when set, returns a pause taken right after the lock is acquired.
	Hold    func() time.Duration
	Events  core.RunEventPublisher // Optional: terminal run events
	Metrics statsd.Sink            // Optional
	Logger  *slog.Logger           // Optional
}

// JobRunnerService drives a single job run: acquire the kind's lock, select work,
// process it as a parallel batch and record the terminal status.
type JobRunnerService struct {
	locks       core.JobLockRepository
	defs        map[model.JobKind]JobDefinition
	holder      string
	concurrency int
	perItemCost time.Duration
	hold        func() time.Duration
	events      core.RunEventPublisher
	metrics     statsd.Sink
	logger      *slog.Logger
}

// NewJobRunnerService constructs a JobRunnerService.
func NewJobRunnerService(opts JobRunnerOptions) (*JobRunnerService, error) {
	if opts.Locks == nil {
		return nil, errors.New("JobLockRepository is required")
	}
	if len(opts.Definitions) == 0 {
		return nil, errors.New("at least one job definition is required")
	}

	defs := make(map[model.JobKind]JobDefinition, len(opts.Definitions))
	for _, d := range opts.Definitions {
		if _, dup := defs[d.Kind()]; dup {
			return nil, fmt.Errorf("duplicate job definition for kind %q", d.Kind())
		}
		defs[d.Kind()] = d
	}

	holder := opts.Holder
	if holder == "" {
		holder = "unknown"
	}
	perItem := opts.PerItemCost
	if perItem <= 0 {
		perItem = batch.DefaultPerItemCost
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &JobRunnerService{
		locks:       opts.Locks,
		defs:        defs,
		holder:      holder,
		concurrency: opts.Concurrency,
		perItemCost: perItem,
		hold:        opts.Hold,
		events:      opts.Events,
		metrics:     opts.Metrics,
		logger:      logger.With("component", "job_runner"),
	}, nil
}

// Kinds returns the job kinds this runner can execute.
func (s *JobRunnerService) Kinds() []model.JobKind {
	out := make([]model.JobKind, 0, len(s.defs))
	for _, k := range model.JobKinds() {
		if _, ok := s.defs[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Run executes one run of kind. It returns *LockConflictError when another run holds
// the lock, and *OrchestrationError when the run aborted; in the latter case the run
// row is left failed. Item failures never fail the run.
func (s *JobRunnerService) Run(ctx context.Context, kind model.JobKind, req model.RunRequest) (*model.JobRunResult, error) {
	def, ok := s.defs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobKind, kind)
	}

	start := time.Now()
	jobID := uuid.NewString()

	acquired, err := s.locks.TryAcquire(ctx, core.AcquireJobRunParams{Kind: kind, JobID: jobID, Holder: s.holder})
	if err != nil {
		s.emitRun(kind, metrics.ResultFailed, start, nil, err)
		return nil, &OrchestrationError{Kind: kind, Err: fmt.Errorf("acquire lock: %w", err)}
	}
	if !acquired {
		return nil, s.conflict(ctx, kind, start)
	}

	log := s.logger.With("job_kind", kind, "job_id", jobID)
	log.InfoContext(ctx, "job run started", "started_by", s.holder)

	result, runErr := s.execute(ctx, def, jobID, req)
	if runErr == nil {
		if err := s.complete(ctx, jobID, result); err != nil {
			runErr = fmt.Errorf("complete run: %w", err)
		}
	}
	if runErr != nil {
		log.ErrorContext(ctx, "job run failed", "error", runErr)
		s.fail(ctx, log, kind, jobID, runErr)
		s.emitRun(kind, metrics.ResultFailed, start, nil, runErr)
		return nil, &OrchestrationError{Kind: kind, JobID: jobID, Err: runErr}
	}

	result.Timing.TotalElapsedMs = time.Since(start).Milliseconds()
	log.InfoContext(ctx, "job run completed",
		"processed", result.ProcessedCount,
		"failed", result.FailedCount,
		"total_elapsed_ms", result.Timing.TotalElapsedMs,
	)
	s.emitRun(kind, metrics.ResultCompleted, start, result, nil)
	s.publish(ctx, model.JobRunEvent{
		JobID:          jobID,
		Kind:           kind,
		Status:         model.JobRunCompleted,
		StartedBy:      s.holder,
		ProcessedCount: result.ProcessedCount,
		FailedCount:    result.FailedCount,
		OccurredAt:     time.Now().UTC(),
	})
	return result, nil
}

func (s *JobRunnerService) conflict(ctx context.Context, kind model.JobKind, start time.Time) error {
	conflict := &LockConflictError{Kind: kind}
	holder, err := s.locks.GetActiveHolder(ctx, kind)
	if err != nil {
		s.logger.WarnContext(ctx, "lookup of active job failed", "job_kind", kind, "error", err)
	} else {
		conflict.Active = holder.Holder()
	}
	s.logger.InfoContext(ctx, "job already running", "job_kind", kind, "active", conflict.Active)
	s.emitRun(kind, metrics.ResultConflict, start, nil, nil)
	return conflict
}

// execute runs selection and the batch. A panic anywhere in here fails the run.
func (s *JobRunnerService) execute(
	ctx context.Context,
	def JobDefinition,
	jobID string,
	req model.RunRequest,
) (result *model.JobRunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("panic during run: %v", r)
		}
	}()

	if s.hold != nil {
		if err := sleepContext(ctx, s.hold()); err != nil {
			return nil, fmt.Errorf("run hold: %w", err)
		}
	}

	items, err := def.Select(ctx)
	if err != nil {
		return nil, fmt.Errorf("select work: %w", err)
	}

	result = &model.JobRunResult{
		JobID:     jobID,
		Kind:      def.Kind(),
		Succeeded: []model.ItemSuccess{},
		Failed:    []model.ItemFailure{},
	}
	if len(items) == 0 {
		result.Message = noActionMessage
		return result, nil
	}

	forced := make(map[string]bool, len(req.ForceFail))
	for _, id := range req.ForceFail {
		forced[id] = true
	}

	out := batch.Run(ctx, items, func(ctx context.Context, item model.WorkItem) (struct{}, error) {
		task := Task{
			JobID:     jobID,
			Item:      item,
			ForceFail: forced[item.EntityID] || (req.RandomFail && rand.IntN(2) == 0), // #nosec G404 - test knob
		}
		return struct{}{}, def.Process(ctx, task)
	}, batch.Options{Concurrency: s.concurrency, PerItemCost: s.perItemCost})

	for _, ok := range out.Succeeded {
		result.Succeeded = append(result.Succeeded, model.ItemSuccess{
			EntityID:  ok.Item.EntityID,
			Recipient: ok.Item.Recipient,
			Action:    ok.Item.Action,
		})
	}
	for _, f := range out.Failed {
		result.Failed = append(result.Failed, model.ItemFailure{
			EntityID:  f.Item.EntityID,
			Recipient: f.Item.Recipient,
			Action:    f.Item.Action,
			Reason:    f.Err.Error(),
		})
	}
	result.ProcessedCount = len(result.Succeeded)
	result.FailedCount = len(result.Failed)
	result.Message = fmt.Sprintf("%s job processed %d of %d items", def.Kind(), result.ProcessedCount, out.Total())
	result.Timing.ParallelElapsedMs = out.ParallelElapsed.Milliseconds()
	result.Timing.SequentialEstimateMs = out.SequentialEstimate.Milliseconds()

	metrics.EmitBatch(s.metrics, metrics.BatchMetric{
		Kind:               string(def.Kind()),
		Items:              len(items),
		Parallel:           out.ParallelElapsed,
		SequentialEstimate: out.SequentialEstimate,
	})
	return result, nil
}

func (s *JobRunnerService) complete(ctx context.Context, jobID string, result *model.JobRunResult) error {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	return s.locks.Complete(fctx, core.CompleteJobRunParams{
		JobID:     jobID,
		Processed: result.ProcessedCount,
		Failed:    result.FailedCount,
	})
}

// fail marks the run failed even if ctx is already cancelled, so the lock is released.
func (s *JobRunnerService) fail(ctx context.Context, log *slog.Logger, kind model.JobKind, jobID string, cause error) {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	msg := model.TruncateErrorMessage(cause.Error())
	if err := s.locks.Fail(fctx, jobID, msg); err != nil {
		log.ErrorContext(ctx, "failed to mark job run failed", "error", err)
		return
	}
	s.publish(ctx, model.JobRunEvent{
		JobID:        jobID,
		Kind:         kind,
		Status:       model.JobRunFailed,
		StartedBy:    s.holder,
		ErrorMessage: msg,
		OccurredAt:   time.Now().UTC(),
	})
}

func (s *JobRunnerService) publish(ctx context.Context, ev model.JobRunEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishRunEvent(context.WithoutCancel(ctx), ev); err != nil {
		s.logger.WarnContext(ctx, "publish run event failed", "job_id", ev.JobID, "error", err)
	}
}

func (s *JobRunnerService) emitRun(
	kind model.JobKind,
	result string,
	start time.Time,
	res *model.JobRunResult,
	err error,
) {
	m := metrics.JobRunMetric{
		Kind:     string(kind),
		Result:   result,
		Duration: time.Since(start),
		Err:      err,
	}
	if res != nil {
		m.Processed = res.ProcessedCount
		m.Failed = res.FailedCount
	}
	metrics.EmitJobRun(s.metrics, m)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
