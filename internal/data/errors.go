package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrJobRunNotInProgress is returned when a terminal update targets a run that is
	// missing or has already left in_progress (completed, failed or reaped).
	ErrJobRunNotInProgress = errors.New("job run not in progress")
	// ErrJobIDRequired is returned when a job run operation is missing its id.
	ErrJobIDRequired = errors.New("job_id is required")
	// ErrAccessRequestIDRequired is returned when an access request write is missing its id.
	ErrAccessRequestIDRequired = errors.New("access_request_id is required")
)
