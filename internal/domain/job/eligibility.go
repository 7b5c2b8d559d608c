package job

import (
	"time"

	"github.com/target/accessjobs/internal/domain/model"
)

const (
	// NotificationHorizonDays is the furthest expiry, in whole days, that gets a reminder.
	NotificationHorizonDays = 30
	// FinalReminderDays is the window in which the second reminder becomes due.
	FinalReminderDays = 7
	// MaxReminders is the number of reminders a grant receives before it goes quiet.
	MaxReminders = 2
)

const day = 24 * time.Hour

// DaysRemaining returns the whole days from now until expiresAt, rounded down.
// An expiry in the past yields a negative value.
func DaysRemaining(now, expiresAt time.Time) int {
	d := expiresAt.Sub(now)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// InNotificationWindow reports whether a grant expiring at expiresAt is within [0, 30] days.
// The "never" sentinel is always outside the window.
func InNotificationWindow(now, expiresAt time.Time) bool {
	if model.IsNeverExpires(expiresAt) {
		return false
	}
	days := DaysRemaining(now, expiresAt)
	return days >= 0 && days <= NotificationHorizonDays
}

// NotificationWindowEnd is the exclusive upper bound on expires_at for the selector query.
func NotificationWindowEnd(now time.Time) time.Time {
	return now.Add((NotificationHorizonDays + 1) * day)
}

// ClassifyReminder decides which reminder, if any, is due for a grant with
// daysRemaining left that has already been sent sentCount reminders.
func ClassifyReminder(daysRemaining, sentCount int) (model.WorkAction, bool) {
	if daysRemaining < 0 || daysRemaining > NotificationHorizonDays {
		return "", false
	}
	switch {
	case sentCount <= 0:
		return model.WorkActionFirstReminder, true
	case sentCount == 1 && daysRemaining <= FinalReminderDays:
		return model.WorkActionFinalReminder, true
	default:
		return "", false
	}
}
