package httpx

import (
	"context"
	"net/http"
	"time"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	DB Pinger // Optional: readiness reports "skipped" without it
}

// Liveness always reports ok while the process can serve requests.
func (h *HealthHandlers) Liveness(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, r, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness reports ok only when the database answers a ping.
func (h *HealthHandlers) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.DB == nil {
		writeHealth(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "skipped"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()
	if err := h.DB.PingContext(ctx); err != nil {
		writeHealth(w, r, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: err.Error()})
		return
	}
	writeHealth(w, r, http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}

func writeHealth(w http.ResponseWriter, r *http.Request, code int, body HealthResponse) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		return
	}
	WriteJSON(w, code, body)
}
