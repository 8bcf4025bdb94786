package ports

import (
	"context"
	"time"

	"github.com/interfac/user-manager/internal/core/domain"
)

// RegisterInput carries a validated candidate user into registration.
// Field-level validation (lengths, patterns, password confirmation) is the
// caller's responsibility; the service enforces cross-record invariants only.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	BirthDate time.Time
	IsAdmin   bool
	Enabled   bool
}

// EditInput updates an existing record. ID must reference a persisted user;
// the username is trusted to be unchanged or already validated by the caller.
type EditInput struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string // empty keeps the stored hash
	BirthDate time.Time
	IsAdmin   bool
	Enabled   bool
}

// UserService is the user-management workflow surface. The principal argument
// on mutating calls is the authenticated caller, used for audit stamping.
type UserService interface {
	Register(ctx context.Context, principal string, input RegisterInput) (*domain.User, error)
	Edit(ctx context.Context, principal string, input EditInput) (*domain.User, error)
	Delete(ctx context.Context, principal string, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Search(ctx context.Context, fragment string) ([]domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
