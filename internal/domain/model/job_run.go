package model

import (
	"fmt"
	"strings"
	"time"
)

// JobKind names a recurring job whose runs are mutually exclusive with each other.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobKind string

const (
	// JobKindNotification dispatches expiry reminders for access grants.
	JobKindNotification JobKind = "notification"
	// JobKindRevoke revokes access grants whose expiry has passed.
	JobKindRevoke JobKind = "revoke"
)

// JobKinds returns every supported job kind.
func JobKinds() []JobKind {
	return []JobKind{JobKindNotification, JobKindRevoke}
}

// Valid returns true if the JobKind is known.
func (k JobKind) Valid() bool {
	return k == JobKindNotification || k == JobKindRevoke
}

// UnmarshalText implements encoding.TextUnmarshaler for JobKind.
func (k *JobKind) UnmarshalText(text []byte) error {
	parsed, err := ParseJobKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseJobKind normalises and validates a job kind string.
func ParseJobKind(raw string) (JobKind, error) {
	k := JobKind(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", fmt.Errorf("invalid job kind: %q", raw)
	}
	return k, nil
}

// JobRunStatus is the lifecycle state of a job run. Transitions are one-way:
// in_progress -> completed or in_progress -> failed.
type JobRunStatus string

const (
	// JobRunInProgress marks a run that holds (or held, if stale) the lock for its kind.
	JobRunInProgress JobRunStatus = "in_progress"
	// JobRunCompleted marks a run whose orchestration finished, regardless of item failures.
	JobRunCompleted JobRunStatus = "completed"
	// JobRunFailed marks a run that aborted outside the per-item isolation boundary.
	JobRunFailed JobRunStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s JobRunStatus) Terminal() bool {
	return s == JobRunCompleted || s == JobRunFailed
}

// MaxErrorMessageLength bounds job_runs.error_message.
const MaxErrorMessageLength = 500

// JobRun is one execution attempt of a job kind. Rows are append-only history.
type JobRun struct {
	ID             string       `json:"jobId"                    db:"id"`
	Kind           JobKind      `json:"jobKind"                  db:"job_kind"`
	Status         JobRunStatus `json:"status"                   db:"status"`
	StartedAt      time.Time    `json:"startedAt"                db:"started_at"`
	StartedBy      string       `json:"startedBy"                db:"started_by"`
	CompletedAt    *time.Time   `json:"completedAt,omitempty"    db:"completed_at"`
	ProcessedCount *int         `json:"processedCount,omitempty" db:"processed_count"`
	FailedCount    *int         `json:"failedCount,omitempty"    db:"failed_count"`
	ErrorMessage   *string      `json:"errorMessage,omitempty"   db:"error_message"`
}

// ActiveJob is the holder identity surfaced in conflict and status responses.
type ActiveJob struct {
	JobID     string    `json:"jobId"`
	StartedAt time.Time `json:"startedAt"`
	StartedBy string    `json:"startedBy"`
}

// Holder projects the run onto the fields clients need to identify a lock holder.
func (r *JobRun) Holder() *ActiveJob {
	if r == nil {
		return nil
	}
	return &ActiveJob{JobID: r.ID, StartedAt: r.StartedAt, StartedBy: r.StartedBy}
}

// TruncateErrorMessage bounds msg to MaxErrorMessageLength runes.
func TruncateErrorMessage(msg string) string {
	runes := []rune(msg)
	if len(runes) <= MaxErrorMessageLength {
		return msg
	}
	return string(runes[:MaxErrorMessageLength])
}

// JobLockStatus answers whether a job kind is currently running, and by whom.
type JobLockStatus struct {
	Locked    bool       `json:"locked"`
	ActiveJob *ActiveJob `json:"activeJob"`
}

// JobRunEvent is broadcast when a run reaches a terminal status.
type JobRunEvent struct {
	JobID          string       `json:"jobId"`
	Kind           JobKind      `json:"jobKind"`
	Status         JobRunStatus `json:"status"`
	StartedBy      string       `json:"startedBy"`
	ProcessedCount int          `json:"processedCount"`
	FailedCount    int          `json:"failedCount"`
	ErrorMessage   string       `json:"errorMessage,omitempty"`
	OccurredAt     time.Time    `json:"occurredAt"`
}
