package service

import (
	"context"
	"fmt"
	"time"

	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/domain/job"
	"github.com/target/accessjobs/internal/domain/model"
)

// Task is one work item handed to a JobDefinition inside a run.
type Task struct {
	JobID string
	Item  model.WorkItem
	// ForceFail asks the definition to fail this item without a durable effect.
	ForceFail bool
}

// JobDefinition binds a job kind to how its work is selected and processed.
// Process must be safe to call concurrently and must leave no durable effect on failure.
type JobDefinition interface {
	Kind() model.JobKind
	Select(ctx context.Context) ([]model.WorkItem, error)
	Process(ctx context.Context, task Task) error
}

// NotificationJobOptions groups dependencies for NotificationJob.
type NotificationJobOptions struct {
	Selector *WorkSelector                // Required
	Notifier core.Notifier                // Required
	Repo     core.AccessRequestRepository // Required: records successful sends
	Now      func() time.Time             // Optional: stamps sent_at
}

// NotificationJob sends expiry reminders and records each successful send.
type NotificationJob struct {
	selector *WorkSelector
	notifier core.Notifier
	repo     core.AccessRequestRepository
	now      func() time.Time
}

var _ JobDefinition = (*NotificationJob)(nil)

// NewNotificationJob constructs a NotificationJob.
func NewNotificationJob(opts NotificationJobOptions) *NotificationJob {
	if opts.Selector == nil || opts.Notifier == nil || opts.Repo == nil {
		panic("NotificationJob requires Selector, Notifier and Repo")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &NotificationJob{selector: opts.Selector, notifier: opts.Notifier, repo: opts.Repo, now: now}
}

// Kind implements JobDefinition.
func (j *NotificationJob) Kind() model.JobKind { return model.JobKindNotification }

// Select implements JobDefinition.
func (j *NotificationJob) Select(ctx context.Context) ([]model.WorkItem, error) {
	return j.selector.SelectPendingNotifications(ctx)
}

// Process sends one reminder. The send is recorded only after the notifier succeeds,
// so a failed send leaves no record and is picked up again next run. If the record
// write fails after a successful send, the item still fails and the reminder is sent
// again next run.
func (j *NotificationJob) Process(ctx context.Context, task Task) error {
	nc := model.NotificationContext{
		JobID:           task.JobID,
		AccessRequestID: task.Item.EntityID,
		Resource:        task.Item.Resource,
		Action:          task.Item.Action,
		ExpiresAt:       task.Item.ExpiresAt,
		DaysRemaining:   task.Item.DaysRemaining,
		ForceFail:       task.ForceFail,
	}
	if err := j.notifier.Notify(ctx, task.Item.Recipient, nc); err != nil {
		return fmt.Errorf("notify %s: %w", task.Item.Recipient, err)
	}
	if err := j.repo.RecordNotification(ctx, core.RecordNotificationParams{
		AccessRequestID: task.Item.EntityID,
		Kind:            task.Item.Action,
		JobID:           task.JobID,
		Recipient:       task.Item.Recipient,
		SentAt:          j.now(),
	}); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// RevokeJobOptions groups dependencies for RevokeJob.
type RevokeJobOptions struct {
	Selector *WorkSelector                // Required
	Repo     core.AccessRequestRepository // Required
	Now      func() time.Time             // Optional
}

// RevokeJob revokes active grants whose expiry has passed.
type RevokeJob struct {
	selector *WorkSelector
	repo     core.AccessRequestRepository
	now      func() time.Time
}

var _ JobDefinition = (*RevokeJob)(nil)

// NewRevokeJob constructs a RevokeJob.
func NewRevokeJob(opts RevokeJobOptions) *RevokeJob {
	if opts.Selector == nil || opts.Repo == nil {
		panic("RevokeJob requires Selector and Repo")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &RevokeJob{selector: opts.Selector, repo: opts.Repo, now: now}
}

// Kind implements JobDefinition.
func (j *RevokeJob) Kind() model.JobKind { return model.JobKindRevoke }

// Select implements JobDefinition.
func (j *RevokeJob) Select(ctx context.Context) ([]model.WorkItem, error) {
	now := j.now().UTC()
	refs, err := j.selector.SelectExpiredActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.WorkItem, len(refs))
	for i, r := range refs {
		items[i] = model.WorkItem{
			EntityID:      r.ID,
			Recipient:     r.Email,
			Resource:      r.Resource,
			Action:        model.WorkActionRevoke,
			ExpiresAt:     r.ExpiresAt,
			DaysRemaining: job.DaysRemaining(now, r.ExpiresAt),
		}
	}
	return items, nil
}

// Process revokes one grant. A grant that stopped being active since selection is a failure.
func (j *RevokeJob) Process(ctx context.Context, task Task) error {
	if task.ForceFail {
		return ErrForcedFailure
	}
	revoked, err := j.repo.Revoke(ctx, core.RevokeAccessParams{
		AccessRequestID: task.Item.EntityID,
		RevokedAt:       j.now(),
	})
	if err != nil {
		return fmt.Errorf("revoke %s: %w", task.Item.EntityID, err)
	}
	if !revoked {
		return fmt.Errorf("revoke %s: access request is no longer active", task.Item.EntityID)
	}
	return nil
}
