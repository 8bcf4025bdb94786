package ports

import (
	"context"

	"github.com/interfac/user-manager/internal/core/domain"
)

// UserCache is a best-effort read cache in front of UserRepository. A miss or
// a cache failure is never an error for the caller; reads fall through to the
// store. Every write path must invalidate the affected entries.
type UserCache interface {
	Get(ctx context.Context, username string) (*domain.User, bool)
	Set(ctx context.Context, user *domain.User)
	Invalidate(ctx context.Context, username string)
}
