package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"math"

	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/data/pgxutil"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
	apperrors "github.com/target/accessjobs/internal/errors"
)

// JobRunRepoConfig holds configuration options for the job run repository.
type JobRunRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRunRepo stores job runs and implements the per-kind lock on top of them.
type JobRunRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var (
	_ core.JobLockRepository       = (*JobRunRepo)(nil)
	_ core.JobRunHistoryRepository = (*JobRunRepo)(nil)
	_ core.JobRunReaperRepository  = (*JobRunRepo)(nil)
)

// NewJobRunRepo creates a new JobRunRepo.
func NewJobRunRepo(db *sql.DB, cfg JobRunRepoConfig) *JobRunRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRunRepo{
		DB:           db,
		timeProvider: tp,
		logger:       logger.With("component", "job_run_repo"),
	}
}

const jobRunColumns = `
  id,
  job_kind,
  status,
  started_at,
  started_by,
  completed_at,
  processed_count,
  failed_count,
  error_message
`

const (
	// Major key 2000 namespaces reaper advisory locks; the acquire path uses the single-key form.
	advisoryLockReaperMajor     = 2000
	advisoryLockReaperAbandoned = 1
)

// jobRunLockKey computes the FNV-1a 64-bit advisory lock key for a job kind.
func jobRunLockKey(kind model.JobKind) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("job_runs:" + string(kind)))
	// Advisory locks accept BIGINT; constrain the unsigned hash into int64 range before casting.
	u := h.Sum64()
	if u > uint64(math.MaxInt64) {
		u %= uint64(math.MaxInt64)
	}
	return int64(u) // #nosec G115 -- value is explicitly bounded to <= MaxInt64 before casting to int64.
}

// TryAcquire records a new in_progress run for params.Kind unless a non-stale one exists.
//
// The check and the insert are one statement. A transaction-scoped advisory lock on the kind
// is taken first so that two READ COMMITTED inserts cannot both see NOT EXISTS as true.
// The advisory lock is released at commit; the row is the lock from then on.
func (r *JobRunRepo) TryAcquire(ctx context.Context, params core.AcquireJobRunParams) (bool, error) {
	if params.JobID == "" {
		return false, ErrJobIDRequired
	}
	if !params.Kind.Valid() {
		return false, fmt.Errorf("acquire job run: invalid job kind %q", params.Kind)
	}

	now := r.timeProvider.Now().UTC()
	cutoff := job.StaleCutoff(now)

	var acquired bool
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", jobRunLockKey(params.Kind)); err != nil {
				return fmt.Errorf("acquire advisory lock for %s: %w", params.Kind, apperrors.MapDBError(err))
			}

			res, err := tx.ExecContext(ctx, `
				INSERT INTO job_runs (id, job_kind, status, started_at, started_by)
				SELECT $1::uuid, $2::text, 'in_progress', $3::timestamptz, $4::text
				WHERE NOT EXISTS (
					SELECT 1 FROM job_runs
					WHERE job_kind = $2::text
					  AND status = 'in_progress'
					  AND started_at > $5::timestamptz
				)
			`, params.JobID, string(params.Kind), now, params.Holder, cutoff)
			if err != nil {
				return fmt.Errorf("insert job run: %w", apperrors.MapDBError(err))
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			acquired = n == 1
			return nil
		},
	})
	if err != nil {
		return false, err
	}

	r.logger.DebugContext(ctx, "job lock acquisition attempted",
		"job_kind", params.Kind,
		"job_id", params.JobID,
		"holder", params.Holder,
		"acquired", acquired,
	)
	return acquired, nil
}

// GetActiveHolder returns the newest in_progress run of kind that is still inside the
// staleness window, or nil when the lock is free.
func (r *JobRunRepo) GetActiveHolder(ctx context.Context, kind model.JobKind) (*model.JobRun, error) {
	cutoff := job.StaleCutoff(r.timeProvider.Now().UTC())

	row := r.DB.QueryRowContext(ctx, `
		SELECT `+jobRunColumns+`
		FROM job_runs
		WHERE job_kind = $1
		  AND status = 'in_progress'
		  AND started_at > $2
		ORDER BY started_at DESC
		LIMIT 1
	`, string(kind), cutoff)

	run, err := scanJobRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active job run: %w", err)
	}
	return run, nil
}

// Complete moves an in_progress run to completed with its outcome counts.
func (r *JobRunRepo) Complete(ctx context.Context, params core.CompleteJobRunParams) error {
	if params.JobID == "" {
		return ErrJobIDRequired
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE job_runs
		SET status = 'completed',
			completed_at = $2,
			processed_count = $3,
			failed_count = $4
		WHERE id = $1
		  AND status = 'in_progress'
	`, params.JobID, r.timeProvider.Now().UTC(), params.Processed, params.Failed)
	if err != nil {
		return fmt.Errorf("complete job run: %w", err)
	}
	return requireOneRow(res, params.JobID)
}

// Fail moves an in_progress run to failed. errMsg is truncated to model.MaxErrorMessageLength.
func (r *JobRunRepo) Fail(ctx context.Context, jobID, errMsg string) error {
	if jobID == "" {
		return ErrJobIDRequired
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE job_runs
		SET status = 'failed',
			completed_at = $2,
			error_message = $3
		WHERE id = $1
		  AND status = 'in_progress'
	`, jobID, r.timeProvider.Now().UTC(), model.TruncateErrorMessage(errMsg))
	if err != nil {
		return fmt.Errorf("fail job run: %w", err)
	}
	return requireOneRow(res, jobID)
}

func requireOneRow(res sql.Result, jobID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("job run %s: %w", jobID, ErrJobRunNotInProgress)
	}
	return nil
}

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ListRecent returns the newest runs of kind, newest first. limit is clamped to [1, 100].
func (r *JobRunRepo) ListRecent(ctx context.Context, kind model.JobKind, limit int) ([]*model.JobRun, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+jobRunColumns+`
		FROM job_runs
		WHERE job_kind = $1
		ORDER BY started_at DESC, id
		LIMIT $2
	`, string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list job runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*model.JobRun, 0, limit)
	for rows.Next() {
		run, scanErr := scanJobRun(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan job run: %w", scanErr)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job runs: %w", err)
	}
	return runs, nil
}

// FailAbandoned marks in_progress runs older than params.OlderThan as failed.
// OlderThan never undercuts job.StalenessWindow so a live holder is not reaped early.
// Uses a try-advisory lock so concurrent reapers skip instead of queueing.
func (r *JobRunRepo) FailAbandoned(ctx context.Context, params core.FailAbandonedParams) (int64, error) {
	olderThan := max(params.OlderThan, job.StalenessWindow)
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}
	msg := model.TruncateErrorMessage(params.Message)

	var affected int64
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			var locked bool
			if err := tx.QueryRowContext(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
				advisoryLockReaperMajor, advisoryLockReaperAbandoned).Scan(&locked); err != nil {
				return fmt.Errorf("acquire advisory lock: %w", err)
			}
			if !locked {
				return nil
			}

			now := r.timeProvider.Now().UTC()
			res, err := tx.ExecContext(ctx, `
				UPDATE job_runs
				SET status = 'failed',
					completed_at = $1,
					error_message = $2
				WHERE id IN (
					SELECT id FROM job_runs
					WHERE status = 'in_progress'
					  AND started_at <= $3
					ORDER BY started_at
					LIMIT $4
				)
				  AND status = 'in_progress'
			`, now, msg, now.Add(-olderThan), batchSize)
			if err != nil {
				return fmt.Errorf("fail abandoned job runs: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			affected = n
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJobRun(s rowScanner) (*model.JobRun, error) {
	var (
		run    model.JobRun
		kind   string
		status string
	)
	if err := s.Scan(
		&run.ID,
		&kind,
		&status,
		&run.StartedAt,
		&run.StartedBy,
		&run.CompletedAt,
		&run.ProcessedCount,
		&run.FailedCount,
		&run.ErrorMessage,
	); err != nil {
		return nil, err
	}
	run.Kind = model.JobKind(kind)
	run.Status = model.JobRunStatus(status)
	run.StartedAt = run.StartedAt.UTC()
	if run.CompletedAt != nil {
		t := run.CompletedAt.UTC()
		run.CompletedAt = &t
	}
	return &run, nil
}

