package model

import "time"

// WorkAction is the variant of work a WorkItem calls for.
type WorkAction string

const (
	// WorkActionFirstReminder is the first expiry reminder for a grant.
	WorkActionFirstReminder WorkAction = "first_reminder"
	// WorkActionFinalReminder is the second and last expiry reminder.
	WorkActionFinalReminder WorkAction = "final_reminder"
	// WorkActionRevoke revokes an expired grant.
	WorkActionRevoke WorkAction = "revoke"
)

// WorkItem is an immutable snapshot of one unit of work selected for a run.
type WorkItem struct {
	EntityID      string     `json:"entityId"`
	Recipient     string     `json:"recipient"`
	Resource      string     `json:"resource,omitempty"`
	Action        WorkAction `json:"action"`
	ExpiresAt     time.Time  `json:"expiresAt"`
	DaysRemaining int        `json:"daysRemaining"`
}

// NotificationContext is what the external notifier receives alongside the recipient.
type NotificationContext struct {
	JobID           string     `json:"jobId"`
	AccessRequestID string     `json:"accessRequestId"`
	Resource        string     `json:"resource,omitempty"`
	Action          WorkAction `json:"action"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	DaysRemaining   int        `json:"daysRemaining"`
	// ForceFail asks a simulating notifier to fail this send. Real notifiers ignore it.
	ForceFail bool `json:"-"`
}
