package ports

import (
	"context"

	"github.com/interfac/user-manager/internal/core/domain"
)

// AuditRepository appends and reads the user change log.
type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	ListByUserID(ctx context.Context, userID int64) ([]domain.AuditEntry, error)
}

// AuditRecorder decouples the workflows from how audit entries reach the
// repository; the queue dispatcher implements it asynchronously.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
