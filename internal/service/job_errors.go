package service

import (
	"errors"
	"fmt"

	"github.com/target/accessjobs/internal/domain/model"
)

// ErrUnknownJobKind is returned when no JobDefinition is registered for a kind.
var ErrUnknownJobKind = errors.New("unknown job kind")

// ErrForcedFailure is the item failure produced by the forceFail and randomFail knobs.
var ErrForcedFailure = errors.New("forced failure")

// LockConflictError reports that another non-stale run of the same kind holds the lock.
// Active may be nil if the holder finished between the failed acquire and the lookup.
type LockConflictError struct {
	Kind   model.JobKind
	Active *model.ActiveJob
}

func (e *LockConflictError) Error() string {
	if e.Active == nil {
		return fmt.Sprintf("%s job is already running", e.Kind)
	}
	return fmt.Sprintf("%s job is already running (job %s started by %s)", e.Kind, e.Active.JobID, e.Active.StartedBy)
}

// OrchestrationError reports a failure outside per-item isolation. When JobID is set
// the run row was marked failed before this error was returned.
type OrchestrationError struct {
	Kind  model.JobKind
	JobID string
	Err   error
}

func (e *OrchestrationError) Error() string {
	if e.JobID == "" {
		return fmt.Sprintf("%s job could not start: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s job %s failed: %v", e.Kind, e.JobID, e.Err)
}

func (e *OrchestrationError) Unwrap() error {
	return e.Err
}
