package core

import (
	"context"
	"time"

	"github.com/target/accessjobs/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// Service implementations depend on these interfaces, not on the data layer.

// AcquireJobRunParams groups parameters for JobLockRepository.TryAcquire.
type AcquireJobRunParams struct {
	Kind   model.JobKind
	JobID  string
	Holder string
}

// CompleteJobRunParams groups parameters for JobLockRepository.Complete.
type CompleteJobRunParams struct {
	JobID     string
	Processed int
	Failed    int
}

// JobLockRepository is the database-row mutex that keeps at most one live run per job kind.
type JobLockRepository interface {
	// TryAcquire inserts an in_progress row for params.Kind unless a fresh one exists.
	// It returns false, nil when another holder owns the lock.
	TryAcquire(ctx context.Context, params AcquireJobRunParams) (bool, error)
	// GetActiveHolder returns the newest non-stale in_progress run for kind, or nil.
	GetActiveHolder(ctx context.Context, kind model.JobKind) (*model.JobRun, error)
	// Complete moves an in_progress run to completed with its counts.
	Complete(ctx context.Context, params CompleteJobRunParams) error
	// Fail moves an in_progress run to failed with a truncated message.
	Fail(ctx context.Context, jobID, errMsg string) error
}

// JobRunHistoryRepository exposes the append-only run log.
type JobRunHistoryRepository interface {
	ListRecent(ctx context.Context, kind model.JobKind, limit int) ([]*model.JobRun, error)
}

// FailAbandonedParams groups parameters for JobRunReaperRepository.FailAbandoned.
type FailAbandonedParams struct {
	OlderThan time.Duration
	BatchSize int
	Message   string
}

// JobRunReaperRepository closes out runs whose holder never came back.
type JobRunReaperRepository interface {
	FailAbandoned(ctx context.Context, params FailAbandonedParams) (int64, error)
}

// RecordNotificationParams groups parameters for AccessRequestRepository.RecordNotification.
type RecordNotificationParams struct {
	AccessRequestID string
	Kind            model.WorkAction
	JobID           string
	Recipient       string
	SentAt          time.Time
}

// RevokeAccessParams groups parameters for AccessRequestRepository.Revoke.
type RevokeAccessParams struct {
	AccessRequestID string
	RevokedAt       time.Time
}

// AccessRequestRepository is the slice of business state the jobs read and write.
type AccessRequestRepository interface {
	// ListActiveExpiring returns active grants with from <= expires_at < to.
	ListActiveExpiring(ctx context.Context, from, to time.Time) ([]model.ExpiringAccess, error)
	// CountNotifications returns the number of reminders recorded per access request id.
	// Ids with no reminders are absent from the map.
	CountNotifications(ctx context.Context, ids []string) (map[string]int, error)
	// ListExpiredActive returns active grants with expires_at <= now, excluding the "never" sentinel.
	ListExpiredActive(ctx context.Context, now time.Time) ([]model.EntityRef, error)
	// RecordNotification durably records one successful reminder.
	RecordNotification(ctx context.Context, params RecordNotificationParams) error
	// Revoke transitions an active grant to revoked. It returns false if the grant was no longer active.
	Revoke(ctx context.Context, params RevokeAccessParams) (bool, error)
}

// Notifier delivers one expiry reminder.
type Notifier interface {
	Notify(ctx context.Context, recipient string, nc model.NotificationContext) error
}

// RunEventPublisher broadcasts terminal job run transitions.
type RunEventPublisher interface {
	PublishRunEvent(ctx context.Context, ev model.JobRunEvent) error
}
