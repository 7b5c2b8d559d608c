// Package httpx exposes job triggers, lock status and run history over HTTP.
package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/target/accessjobs/internal/domain/model"
	apperrors "github.com/target/accessjobs/internal/errors"
	"github.com/target/accessjobs/internal/service"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// JobRunner starts one run of a job kind.
type JobRunner interface {
	Run(ctx context.Context, kind model.JobKind, req model.RunRequest) (*model.JobRunResult, error)
}

// JobStatusReader answers lock status and history queries.
type JobStatusReader interface {
	Status(ctx context.Context, kind model.JobKind) (*model.JobLockStatus, error)
	History(ctx context.Context, kind model.JobKind, limit int) ([]*model.JobRun, error)
}

var (
	_ JobRunner       = (*service.JobRunnerService)(nil)
	_ JobStatusReader = (*service.JobStatusService)(nil)
)

// JobHandlers provides HTTP handlers for job-related operations.
type JobHandlers struct {
	Runner JobRunner
	Status JobStatusReader
	Logger *slog.Logger
}

// ConflictResponse is returned with 409 when the job kind is already running.
type ConflictResponse struct {
	Message   string           `json:"message"`
	ActiveJob *model.ActiveJob `json:"activeJob"`
}

// RunFailedResponse is returned with 500 when a run aborted after taking the lock.
type RunFailedResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	JobID   string `json:"jobId,omitempty"`
}

// RunJob handles POST /api/jobs/{kind}/run. The body and query may carry the
// forceFail and randomFail test knobs; both are optional.
func (h *JobHandlers) RunJob(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}

	var req model.RunRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	req.ForceFail = append(req.ForceFail, parseListQuery(r, "forceFail")...)
	req.RandomFail = req.RandomFail || parseBoolQuery(r, "randomFail")

	res, err := h.Runner.Run(r.Context(), kind, req)
	if err != nil {
		h.writeRunError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (h *JobHandlers) writeRunError(w http.ResponseWriter, r *http.Request, err error) {
	var conflict *service.LockConflictError
	if errors.As(err, &conflict) {
		WriteJSON(w, http.StatusConflict, ConflictResponse{Message: conflict.Error(), ActiveJob: conflict.Active})
		return
	}

	if errors.Is(err, service.ErrUnknownJobKind) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_job_kind", Err: err})
		return
	}

	var orch *service.OrchestrationError
	if errors.As(err, &orch) {
		h.logger().ErrorContext(r.Context(), "job run failed", "job_kind", orch.Kind, "job_id", orch.JobID, "error", orch.Err)
		WriteJSON(w, http.StatusInternalServerError, RunFailedResponse{
			Error:   "job_failed",
			Message: err.Error(),
			JobID:   orch.JobID,
		})
		return
	}

	writeServiceError(w, err)
}

// JobStatus handles GET /api/jobs/{kind}/status.
func (h *JobHandlers) JobStatus(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	st, err := h.Status.Status(r.Context(), kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

// ListRuns handles GET /api/jobs/{kind}/runs?limit=N, newest first.
func (h *JobHandlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	kind, ok := pathKind(w, r)
	if !ok {
		return
	}
	runs, err := h.Status.History(r.Context(), kind, ParseLimit(r, defaultRunsLimit, maxRunsLimit))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if runs == nil {
		runs = []*model.JobRun{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *JobHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func pathKind(w http.ResponseWriter, r *http.Request) (model.JobKind, bool) {
	kind, err := model.ParseJobKind(r.PathValue("kind"))
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_job_kind", Err: err})
		return "", false
	}
	return kind, true
}

// writeServiceError maps AppError codes and context errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownJobKind), apperrors.IsValidation(err):
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_request", Err: err})
	case apperrors.IsNotFound(err):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
	case apperrors.IsConflict(err):
		WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "conflict", Err: err})
	case errors.Is(err, service.ErrHistoryUnavailable):
		WriteError(w, ErrorParams{Code: http.StatusNotImplemented, ErrCode: "not_available", Err: err})
	case apperrors.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		WriteError(w, ErrorParams{Code: http.StatusGatewayTimeout, ErrCode: "timeout", Err: err})
	default:
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
	}
}
