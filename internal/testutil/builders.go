package testutil

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AccessRequestSeed describes an access_requests row to insert directly.
type AccessRequestSeed struct {
	Email     string
	Resource  string
	Status    string
	ExpiresAt *time.Time
}

// SeedAccessRequest inserts an access request and returns its id. Status defaults to active.
func SeedAccessRequest(t TestingTB, db *sql.DB, seed AccessRequestSeed) string {
	t.Helper()

	if seed.Email == "" {
		seed.Email = "user@example.com"
	}
	if seed.Resource == "" {
		seed.Resource = "reporting-db"
	}
	if seed.Status == "" {
		seed.Status = "active"
	}

	id := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		INSERT INTO access_requests (id, email, resource, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, seed.Email, seed.Resource, seed.Status, seed.ExpiresAt); err != nil {
		t.Fatalf("seed access request: %v", err)
	}
	return id
}

// SeedNotifications records n prior reminders for an access request.
func SeedNotifications(t TestingTB, db *sql.DB, accessRequestID string, n int) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	kinds := []string{"first_reminder", "final_reminder"}
	for i := range n {
		if _, err := db.ExecContext(ctx, `
			INSERT INTO access_notifications (id, access_request_id, kind, recipient)
			VALUES ($1, $2, $3, 'seed@example.com')
		`, uuid.NewString(), accessRequestID, kinds[min(i, len(kinds)-1)]); err != nil {
			t.Fatalf("seed notification: %v", err)
		}
	}
}

// JobRunSeed describes a job_runs row to insert directly, bypassing the lock.
type JobRunSeed struct {
	Kind      string
	Status    string
	StartedAt time.Time
	StartedBy string
}

// SeedJobRun inserts a job run and returns its id.
func SeedJobRun(t TestingTB, db *sql.DB, seed JobRunSeed) string {
	t.Helper()

	if seed.Status == "" {
		seed.Status = "in_progress"
	}
	if seed.StartedBy == "" {
		seed.StartedBy = "seed-host:1"
	}

	id := uuid.NewString()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `
		INSERT INTO job_runs (id, job_kind, status, started_at, started_by)
		VALUES ($1, $2, $3, $4, $5)
	`, id, seed.Kind, seed.Status, seed.StartedAt.UTC(), seed.StartedBy); err != nil {
		t.Fatalf("seed job run: %v", err)
	}
	return id
}
