package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
)

// WorkSelectorOptions groups dependencies for WorkSelector.
type WorkSelectorOptions struct {
	Repo   core.AccessRequestRepository // Required
	Now    func() time.Time             // Optional: defaults to time.Now
	Logger *slog.Logger                 // Optional
}

// WorkSelector derives work items from access grant state. It never writes.
type WorkSelector struct {
	repo   core.AccessRequestRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewWorkSelector constructs a new WorkSelector.
func NewWorkSelector(opts WorkSelectorOptions) *WorkSelector {
	if opts.Repo == nil {
		panic("AccessRequestRepository is required")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkSelector{repo: opts.Repo, now: now, logger: logger.With("component", "work_selector")}
}

// SelectPendingNotifications returns the reminders due now: a first reminder for grants
// expiring in 0..30 whole days that have none, and a final reminder for grants with one
// reminder and at most 7 days left.
func (s *WorkSelector) SelectPendingNotifications(ctx context.Context) ([]model.WorkItem, error) {
	now := s.now().UTC()

	grants, err := s.repo.ListActiveExpiring(ctx, now, job.NotificationWindowEnd(now))
	if err != nil {
		return nil, fmt.Errorf("list expiring access: %w", err)
	}
	if len(grants) == 0 {
		return nil, nil
	}

	ids := make([]string, len(grants))
	for i, g := range grants {
		ids[i] = g.ID
	}
	counts, err := s.repo.CountNotifications(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count notifications: %w", err)
	}

	items := make([]model.WorkItem, 0, len(grants))
	for _, g := range grants {
		if !job.InNotificationWindow(now, g.ExpiresAt) {
			continue
		}
		days := job.DaysRemaining(now, g.ExpiresAt)
		action, due := job.ClassifyReminder(days, counts[g.ID])
		if !due {
			continue
		}
		items = append(items, model.WorkItem{
			EntityID:      g.ID,
			Recipient:     g.Email,
			Resource:      g.Resource,
			Action:        action,
			ExpiresAt:     g.ExpiresAt,
			DaysRemaining: days,
		})
	}

	s.logger.DebugContext(ctx, "selected pending notifications", "candidates", len(grants), "due", len(items))
	return items, nil
}

// SelectExpiredActive returns active grants whose expiry has passed. The "never"
// sentinel is never selected.
func (s *WorkSelector) SelectExpiredActive(ctx context.Context) ([]model.EntityRef, error) {
	now := s.now().UTC()

	refs, err := s.repo.ListExpiredActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("list expired access: %w", err)
	}

	out := refs[:0]
	for _, r := range refs {
		if model.IsNeverExpires(r.ExpiresAt) || r.ExpiresAt.After(now) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
