package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/accessjobs/config"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/observability/metrics"
	"github.com/target/accessjobs/internal/observability/statsd"
)

// AbandonedRunMessage is the error_message written on runs the reaper closes out.
const AbandonedRunMessage = "abandoned: exceeded staleness window"

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Repo    core.JobRunReaperRepository // Required
	Config  config.ReaperConfig         // Required
	Logger  *slog.Logger                // Optional
	Metrics statsd.Sink                 // Optional
}

// ReaperService marks runs whose holder died as failed so history stays tidy.
// Stale runs never block acquisition, so the reaper is housekeeping only.
type ReaperService struct {
	repo    core.JobRunReaperRepository
	config  config.ReaperConfig
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Repo == nil {
		return nil, errors.New("JobRunReaperRepository is required")
	}

	cfg := opts.Config
	cfg.Sanitize()

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "reaper_service")
		logger.Debug("ReaperService initialized",
			"interval", cfg.Interval,
			"abandoned_after", cfg.AbandonedAfter,
			"batch_size", cfg.BatchSize,
		)
	}

	return &ReaperService{
		repo:    opts.Repo,
		config:  cfg,
		logger:  logger,
		metrics: opts.Metrics,
	}, nil
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	if s.logger != nil {
		s.logger.InfoContext(ctx, "starting reaper service", "interval", s.config.Interval)
	}

	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if _, err := s.ReapOnce(ctx); err != nil {
		s.logReapError(ctx, err, "initial reap")
	}

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.InfoContext(ctx, "reaper service stopping", "reason", ctx.Err())
			}
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.ReapOnce(ctx); err != nil {
				s.logReapError(ctx, err, "reap")
			}
		}
	}
}

// ReapOnce fails abandoned runs in batches until none are left.
func (s *ReaperService) ReapOnce(ctx context.Context) (int64, error) {
	var total int64
	for {
		n, err := s.repo.FailAbandoned(ctx, core.FailAbandonedParams{
			OlderThan: s.config.AbandonedAfter,
			BatchSize: s.config.BatchSize,
			Message:   AbandonedRunMessage,
		})
		total += n
		if err != nil {
			metrics.EmitReaped(s.metrics, total)
			return total, fmt.Errorf("fail abandoned runs: %w", err)
		}
		if n == 0 {
			break
		}
		if ctx.Err() != nil {
			metrics.EmitReaped(s.metrics, total)
			return total, ctx.Err()
		}
	}

	metrics.EmitReaped(s.metrics, total)
	if total > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "failed abandoned job runs",
			"count", total,
			"abandoned_after", s.config.AbandonedAfter,
		)
	}
	return total, nil
}

// waitWithJitter adds a random delay up to 10% of the interval to prevent thundering herd.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		}
		return
	}

	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	t := time.NewTimer(jitter)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (s *ReaperService) logReapError(ctx context.Context, err error, op string) {
	if s.logger == nil {
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.DebugContext(ctx, op+" interrupted", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, op+" failed", "error", err)
}
