package ports

import (
	"context"

	"github.com/interfac/user-manager/internal/core/domain"
)

// RoleRepository persists named roles. FindByName returns
// domain.ErrRoleMissing when no role with that name exists.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	Save(ctx context.Context, role *domain.Role) (*domain.Role, error)
}

// PrivilegeRepository persists named privileges. FindByName returns
// domain.ErrRoleMissing for absent names, same class of fault as a
// missing role.
type PrivilegeRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Privilege, error)
	Save(ctx context.Context, privilege *domain.Privilege) (*domain.Privilege, error)
}
