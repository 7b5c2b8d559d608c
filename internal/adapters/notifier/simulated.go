// Package notifier provides Notifier implementations.
package notifier

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/model"
)

// DefaultLatency is the simulated delivery time of one reminder.
const DefaultLatency = time.Second

// ErrSimulatedFailure is returned for sends that were asked to fail.
var ErrSimulatedFailure = errors.New("simulated notification failure")

// SimulatedOptions configures a Simulated notifier.
type SimulatedOptions struct {
	Latency time.Duration // Optional: defaults to DefaultLatency
	Logger  *slog.Logger  // Optional
}

// Simulated stands in for an email gateway. Each send blocks only its own
// goroutine for Latency and then logs the reminder.
type Simulated struct {
	latency time.Duration
	logger  *slog.Logger
}

var _ core.Notifier = (*Simulated)(nil)

// NewSimulated constructs a Simulated notifier.
func NewSimulated(opts SimulatedOptions) *Simulated {
	latency := opts.Latency
	if latency <= 0 {
		latency = DefaultLatency
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulated{latency: latency, logger: logger.With("component", "simulated_notifier")}
}

// Notify waits for the configured latency, then fails if nc.ForceFail is set.
func (s *Simulated) Notify(ctx context.Context, recipient string, nc model.NotificationContext) error {
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	if nc.ForceFail {
		return ErrSimulatedFailure
	}

	s.logger.InfoContext(ctx, "reminder sent",
		"recipient", recipient,
		"access_request_id", nc.AccessRequestID,
		"action", nc.Action,
		"days_remaining", nc.DaysRemaining,
		"job_id", nc.JobID,
	)
	return nil
}
