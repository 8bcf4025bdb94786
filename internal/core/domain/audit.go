package domain

import "time"

// AuditAction identifies what happened to a user record.
type AuditAction string

const (
	AuditRegistered AuditAction = "registered"
	AuditUpdated    AuditAction = "updated"
	AuditDeleted    AuditAction = "deleted"
)

// AuditEntry records a single change to a user record: who did what to whom,
// and when. Entries are append-only.
type AuditEntry struct {
	ID        string      `json:"id,omitempty"`
	Action    AuditAction `json:"action"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Principal string      `json:"principal"`
	At        time.Time   `json:"at"`
}
