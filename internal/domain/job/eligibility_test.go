package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/target/accessjobs/internal/domain/model"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      int
	}{
		{"later today", now.Add(3 * time.Hour), 0},
		{"exactly seven days", now.Add(7 * day), 7},
		{"seven and a half days rounds down", now.Add(7*day + 12*time.Hour), 7},
		{"exactly thirty days", now.Add(30 * day), 30},
		{"thirty one days", now.Add(31 * day), 31},
		{"one hour ago", now.Add(-time.Hour), -1},
		{"exactly one day ago", now.Add(-day), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(now, tt.expiresAt))
		})
	}
}

func TestInNotificationWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.True(t, InNotificationWindow(now, now))
	assert.True(t, InNotificationWindow(now, now.Add(30*day)))
	assert.False(t, InNotificationWindow(now, now.Add(31*day)))
	assert.False(t, InNotificationWindow(now, now.Add(-day)))
	assert.False(t, InNotificationWindow(now, model.NeverExpires))
}

func TestNotificationWindowEnd_CoversDayThirty(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	end := NotificationWindowEnd(now)

	assert.True(t, now.Add(30*day+23*time.Hour).Before(end))
	assert.False(t, now.Add(31*day).Before(end))
}

func TestClassifyReminder(t *testing.T) {
	tests := []struct {
		name       string
		days       int
		sent       int
		wantAction model.WorkAction
		wantDue    bool
	}{
		{"first reminder at day 30", 30, 0, model.WorkActionFirstReminder, true},
		{"first reminder at day 0", 0, 0, model.WorkActionFirstReminder, true},
		{"first reminder inside final window", 3, 0, model.WorkActionFirstReminder, true},
		{"final reminder at day 7", 7, 1, model.WorkActionFinalReminder, true},
		{"final reminder at day 1", 1, 1, model.WorkActionFinalReminder, true},
		{"second reminder not yet due at day 8", 8, 1, "", false},
		{"second reminder not yet due at day 30", 30, 1, "", false},
		{"exhausted after two", 2, 2, "", false},
		{"exhausted after many", 2, 5, "", false},
		{"day 31 excluded", 31, 0, "", false},
		{"day -1 excluded", -1, 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, due := ClassifyReminder(tt.days, tt.sent)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestClassifyReminder_NeverEmitsForExhaustedGrants(t *testing.T) {
	for days := -5; days <= 40; days++ {
		for sent := MaxReminders; sent < MaxReminders+3; sent++ {
			_, due := ClassifyReminder(days, sent)
			assert.False(t, due, "days=%d sent=%d", days, sent)
		}
	}
}

func TestRandomHold_Bounded(t *testing.T) {
	for range 100 {
		d := RandomHold()
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.Less(t, d, MaxRunHold)
	}
}
