package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh run holds the lock", func(t *testing.T) {
		assert.False(t, IsStale(now.Add(-time.Minute), now))
	})

	t.Run("one nanosecond inside the window", func(t *testing.T) {
		assert.False(t, IsStale(now.Add(-StalenessWindow+time.Nanosecond), now))
	})

	t.Run("exactly the window is stale", func(t *testing.T) {
		assert.True(t, IsStale(now.Add(-StalenessWindow), now))
	})

	t.Run("older runs are stale", func(t *testing.T) {
		assert.True(t, IsStale(now.Add(-time.Hour), now))
	})
}

func TestStaleCutoff(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-10*time.Minute), StaleCutoff(now))
}
