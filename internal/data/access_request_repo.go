package data

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/target/accessjobs/internal/core"
	"github.com/target/accessjobs/internal/data/pgxutil"
	"github.com/target/accessjobs/internal/domain/model"
	apperrors "github.com/target/accessjobs/internal/errors"
)

// AccessRequestRepoConfig holds configuration options for the access request repository.
type AccessRequestRepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// AccessRequestRepo provides the access grant queries and writes the jobs need.
type AccessRequestRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.AccessRequestRepository = (*AccessRequestRepo)(nil)

// NewAccessRequestRepo creates a new AccessRequestRepo.
func NewAccessRequestRepo(db *sql.DB, cfg AccessRequestRepoConfig) *AccessRequestRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccessRequestRepo{
		DB:           db,
		timeProvider: tp,
		logger:       logger.With("component", "access_request_repo"),
	}
}

const accessRequestColumns = `
  id,
  email,
  resource,
  status,
  expires_at,
  revoked_at,
  created_at,
  updated_at
`

// Create inserts an access request. Status defaults to pending.
func (r *AccessRequestRepo) Create(ctx context.Context, req model.CreateAccessRequest) (*model.AccessRequest, error) {
	status := req.Status
	if status == "" {
		status = model.AccessStatusPending
	}
	now := r.timeProvider.Now().UTC()

	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO access_requests (id, email, resource, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+accessRequestColumns,
		uuid.NewString(), req.Email, req.Resource, string(status), req.ExpiresAt, now)

	ar, err := scanAccessRequest(row)
	if err != nil {
		return nil, fmt.Errorf("create access request: %w", apperrors.MapDBError(err))
	}
	return ar, nil
}

// GetByID returns one access request. A missing id yields a not_found AppError wrapping sql.ErrNoRows.
func (r *AccessRequestRepo) GetByID(ctx context.Context, id string) (*model.AccessRequest, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+accessRequestColumns+` FROM access_requests WHERE id = $1`, id)
	ar, err := scanAccessRequest(row)
	if err != nil {
		return nil, fmt.Errorf("get access request %s: %w", id, apperrors.MapDBError(err))
	}
	return ar, nil
}

// ListActiveExpiring returns active grants with from <= expires_at < to, soonest first.
// Grants without an expiry or with the "never" sentinel are excluded.
func (r *AccessRequestRepo) ListActiveExpiring(ctx context.Context, from, to time.Time) ([]model.ExpiringAccess, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, resource, expires_at
		FROM access_requests
		WHERE status = 'active'
		  AND expires_at IS NOT NULL
		  AND expires_at >= $1
		  AND expires_at < $2
		  AND expires_at < $3
		ORDER BY expires_at, id
	`, from.UTC(), to.UTC(), model.NeverExpires)
	if err != nil {
		return nil, fmt.Errorf("list expiring access: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.ExpiringAccess
	for rows.Next() {
		var ea model.ExpiringAccess
		if err := rows.Scan(&ea.ID, &ea.Email, &ea.Resource, &ea.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan expiring access: %w", err)
		}
		ea.ExpiresAt = ea.ExpiresAt.UTC()
		out = append(out, ea)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expiring access: %w", err)
	}
	return out, nil
}

// CountNotifications returns reminder counts keyed by access request id.
func (r *AccessRequestRepo) CountNotifications(ctx context.Context, ids []string) (map[string]int, error) {
	counts := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	uids := make([]uuid.UUID, 0, len(ids))
	for _, s := range ids {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid in ids: %w", err)
		}
		uids = append(uids, id)
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT access_request_id::text, COUNT(*)
			FROM access_notifications
			WHERE access_request_id = ANY($1)
			GROUP BY access_request_id
		`, uids)
		if err != nil {
			return fmt.Errorf("count notifications: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var (
				id string
				n  int
			)
			if err := rows.Scan(&id, &n); err != nil {
				return fmt.Errorf("scan notification count: %w", err)
			}
			counts[id] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// ListExpiredActive returns active grants whose expiry is at or before now.
func (r *AccessRequestRepo) ListExpiredActive(ctx context.Context, now time.Time) ([]model.EntityRef, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, email, resource, expires_at
		FROM access_requests
		WHERE status = 'active'
		  AND expires_at IS NOT NULL
		  AND expires_at <= $1
		  AND expires_at < $2
		ORDER BY expires_at, id
	`, now.UTC(), model.NeverExpires)
	if err != nil {
		return nil, fmt.Errorf("list expired access: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.EntityRef
	for rows.Next() {
		var ref model.EntityRef
		if err := rows.Scan(&ref.ID, &ref.Email, &ref.Resource, &ref.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan expired access: %w", err)
		}
		ref.ExpiresAt = ref.ExpiresAt.UTC()
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expired access: %w", err)
	}
	return out, nil
}

// RecordNotification stores one successful reminder and touches the grant, in its own transaction.
func (r *AccessRequestRepo) RecordNotification(ctx context.Context, params core.RecordNotificationParams) error {
	if params.AccessRequestID == "" {
		return ErrAccessRequestIDRequired
	}
	sentAt := params.SentAt
	if sentAt.IsZero() {
		sentAt = r.timeProvider.Now()
	}
	var jobID *string
	if params.JobID != "" {
		jobID = &params.JobID
	}

	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO access_notifications (id, access_request_id, kind, job_run_id, recipient, sent_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, uuid.NewString(), params.AccessRequestID, string(params.Kind), jobID, params.Recipient, sentAt.UTC()); err != nil {
				return fmt.Errorf("insert notification: %w", apperrors.MapDBError(err))
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE access_requests SET updated_at = $2 WHERE id = $1`,
				params.AccessRequestID, sentAt.UTC(),
			); err != nil {
				return fmt.Errorf("touch access request: %w", err)
			}
			return nil
		},
	})
}

// Revoke moves an active grant to revoked. It returns false when the grant was not active.
func (r *AccessRequestRepo) Revoke(ctx context.Context, params core.RevokeAccessParams) (bool, error) {
	if params.AccessRequestID == "" {
		return false, ErrAccessRequestIDRequired
	}
	at := params.RevokedAt
	if at.IsZero() {
		at = r.timeProvider.Now()
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE access_requests
		SET status = 'revoked',
			revoked_at = $2,
			updated_at = $2
		WHERE id = $1
		  AND status = 'active'
	`, params.AccessRequestID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("revoke access request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}

func scanAccessRequest(s rowScanner) (*model.AccessRequest, error) {
	var (
		ar     model.AccessRequest
		status string
	)
	if err := s.Scan(
		&ar.ID,
		&ar.Email,
		&ar.Resource,
		&status,
		&ar.ExpiresAt,
		&ar.RevokedAt,
		&ar.CreatedAt,
		&ar.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ar.Status = model.AccessStatus(status)
	return &ar, nil
}
