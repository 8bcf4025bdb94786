package ports

import (
	"context"

	"github.com/interfac/user-manager/internal/core/domain"
)

// AuthService authenticates a login name against the stored credentials and
// issues a signed token carrying the derived authorities.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
