// Package job holds the pure rules that govern job runs: lock staleness,
// reminder eligibility and the demo run hold.
package job

import "time"

// StalenessWindow is how long an in-progress run keeps its lock. After this
// window a new run of the same kind may acquire even if the old row is still
// in progress. There is no heartbeat; a holder that outlives the window can
// overlap with its successor.
const StalenessWindow = 10 * time.Minute

// StaleCutoff returns the instant before which an in-progress run no longer blocks.
func StaleCutoff(now time.Time) time.Time {
	return now.Add(-StalenessWindow)
}

// IsStale reports whether a run started at startedAt has exceeded the window at now.
// A run exactly StalenessWindow old is stale.
func IsStale(startedAt, now time.Time) bool {
	return !startedAt.After(StaleCutoff(now))
}
