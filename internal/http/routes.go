package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Runner JobRunner
	Status JobStatusReader
	DB     Pinger       // Optional: backs /readyz
	Logger *slog.Logger // Optional
}

// NewRouter creates the API mux. Middleware is applied by the caller.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobs := &JobHandlers{Runner: services.Runner, Status: services.Status, Logger: services.Logger}
	registerJobRoutes(mux, jobs)

	health := &HealthHandlers{DB: services.DB}
	mux.HandleFunc("GET /healthz", health.Liveness)
	mux.HandleFunc("HEAD /healthz", health.Liveness)
	mux.HandleFunc("GET /readyz", health.Readiness)

	return mux
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/jobs/{kind}/run", h.RunJob)
	mux.HandleFunc("GET /api/jobs/{kind}/status", h.JobStatus)
	mux.HandleFunc("GET /api/jobs/{kind}/runs", h.ListRuns)
}
