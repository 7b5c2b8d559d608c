package job

import (
	"math/rand/v2"
	"time"
)

// MaxRunHold caps the pause a run takes after acquiring its lock in development mode.
const MaxRunHold = 15 * time.Second

// RandomHold returns a pause in [0, MaxRunHold).
func RandomHold() time.Duration {
	return rand.N(MaxRunHold) //nolint:gosec // not security sensitive
}
