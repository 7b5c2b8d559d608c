package model

import "time"

// AccessStatus is the lifecycle state of an access grant.
type AccessStatus string

const (
	AccessStatusPending AccessStatus = "pending"
	AccessStatusActive  AccessStatus = "active"
	AccessStatusRevoked AccessStatus = "revoked"
	AccessStatusDenied  AccessStatus = "denied"
)

// NeverExpires is the sentinel expiry stored for grants without an end date.
var NeverExpires = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// IsNeverExpires reports whether t is the "never" sentinel (or a later date).
func IsNeverExpires(t time.Time) bool {
	return !t.Before(NeverExpires)
}

// ExpiringAccess is an active grant as seen by the notification selector.
type ExpiringAccess struct {
	ID        string    `json:"id"        db:"id"`
	Email     string    `json:"email"     db:"email"`
	Resource  string    `json:"resource"  db:"resource"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// EntityRef identifies an access grant selected for revocation.
type EntityRef struct {
	ID        string    `json:"id"        db:"id"`
	Email     string    `json:"email"     db:"email"`
	Resource  string    `json:"resource"  db:"resource"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
}

// AccessRequest is a grant of access to a resource for a user.
type AccessRequest struct {
	ID        string       `json:"id"                  db:"id"`
	Email     string       `json:"email"               db:"email"`
	Resource  string       `json:"resource"            db:"resource"`
	Status    AccessStatus `json:"status"              db:"status"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty" db:"expires_at"`
	RevokedAt *time.Time   `json:"revokedAt,omitempty" db:"revoked_at"`
	CreatedAt time.Time    `json:"createdAt"           db:"created_at"`
	UpdatedAt time.Time    `json:"updatedAt"           db:"updated_at"`
}

// CreateAccessRequest holds the fields for inserting an access request.
type CreateAccessRequest struct {
	Email     string       `json:"email"`
	Resource  string       `json:"resource"`
	Status    AccessStatus `json:"status,omitempty"`
	ExpiresAt *time.Time   `json:"expiresAt,omitempty"`
}
