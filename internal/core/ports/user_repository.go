package ports

import (
	"context"

	"github.com/interfac/user-manager/internal/core/domain"
)

// UserRepository is the persistence boundary for user records.
//
// Create assigns the record its identifier; the store is expected to hold a
// uniqueness constraint on username and reject duplicates with
// *domain.UsernameExistsError so the check-then-act window in registration
// cannot produce two records with the same name.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	DeleteByID(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	SearchByUsername(ctx context.Context, fragment string) ([]domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
}
