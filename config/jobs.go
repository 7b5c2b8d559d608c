package config

import (
	"fmt"
	"os"
	"strings"
)

// JobsConfig contains job runner configuration.
type JobsConfig struct {
	// HolderID identifies this process in job_runs.started_by. Defaults to hostname:pid.
	HolderID string `env:"JOBS_HOLDER_ID" envDefault:""`

	// BatchConcurrency caps in-flight work items per run. Zero means one goroutine per item.
	BatchConcurrency int `env:"JOBS_BATCH_CONCURRENCY" envDefault:"0"`

	// RunHold pauses each run after acquiring the lock so polling clients can observe it.
	// Only honoured in development mode.
	RunHold bool `env:"JOBS_RUN_HOLD" envDefault:"false"`
}

// Sanitize applies guardrails to job runner configuration values.
func (j *JobsConfig) Sanitize() {
	if j.BatchConcurrency < 0 {
		j.BatchConcurrency = 0
	}
	j.HolderID = strings.TrimSpace(j.HolderID)
	if j.HolderID == "" {
		j.HolderID = defaultHolderID()
	}
}

func defaultHolderID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}
