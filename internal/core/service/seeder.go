package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/interfac/user-manager/internal/core/domain"
	"github.com/interfac/user-manager/internal/core/ports"
)

// Seeder installs the reference privileges, roles and the root account at
// process start. Every step is create-if-absent, so running it against an
// already-seeded store changes nothing.
type Seeder struct {
	users      ports.UserService
	roles      ports.RoleRepository
	privileges ports.PrivilegeRepository
	logger     zerolog.Logger
}

func NewSeeder(users ports.UserService, roles ports.RoleRepository, privileges ports.PrivilegeRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, privileges: privileges, logger: logger}
}

// RootCredentials configures the seed admin account.
type RootCredentials struct {
	Username string
	Password string
	Email    string
}

// Run seeds privileges first, then the roles referencing them, then the root
// user through the normal registration workflow.
func (s *Seeder) Run(ctx context.Context, root RootCredentials) error {
	read, err := s.privilegeIfAbsent(ctx, domain.PrivilegeRead)
	if err != nil {
		return err
	}
	write, err := s.privilegeIfAbsent(ctx, domain.PrivilegeWrite)
	if err != nil {
		return err
	}

	if err := s.roleIfAbsent(ctx, domain.RoleAdmin, []string{read.Name, write.Name}); err != nil {
		return err
	}
	if err := s.roleIfAbsent(ctx, domain.RoleUser, []string{read.Name}); err != nil {
		return err
	}

	return s.rootIfAbsent(ctx, root)
}

func (s *Seeder) privilegeIfAbsent(ctx context.Context, name string) (*domain.Privilege, error) {
	existing, err := s.privileges.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrRoleMissing) {
		return nil, fmt.Errorf("lookup privilege %s: %w", name, err)
	}

	created, err := s.privileges.Save(ctx, &domain.Privilege{Name: name})
	if err != nil {
		return nil, fmt.Errorf("seed privilege %s: %w", name, err)
	}
	s.logger.Info().Str("privilege", name).Msg("seeded privilege")
	return created, nil
}

func (s *Seeder) roleIfAbsent(ctx context.Context, name string, privileges []string) error {
	_, err := s.roles.FindByName(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrRoleMissing) {
		return fmt.Errorf("lookup role %s: %w", name, err)
	}

	if _, err := s.roles.Save(ctx, &domain.Role{Name: name, Privileges: privileges}); err != nil {
		return fmt.Errorf("seed role %s: %w", name, err)
	}
	s.logger.Info().Str("role", name).Msg("seeded role")
	return nil
}

func (s *Seeder) rootIfAbsent(ctx context.Context, root RootCredentials) error {
	exists, err := s.users.UsernameExists(ctx, root.Username)
	if err != nil {
		return fmt.Errorf("lookup root user: %w", err)
	}
	if exists {
		return nil
	}

	_, err = s.users.Register(ctx, "system", ports.RegisterInput{
		Username:  root.Username,
		FirstName: "System",
		LastName:  "Administrator",
		Email:     root.Email,
		Phone:     "000-000-0000",
		Password:  root.Password,
		IsAdmin:   true,
		Enabled:   true,
	})
	if err != nil {
		// A concurrent replica may have won the race; that still satisfies
		// the idempotence contract.
		if errors.Is(err, &domain.UsernameExistsError{}) {
			return nil
		}
		return fmt.Errorf("seed root user: %w", err)
	}
	s.logger.Info().Str("username", root.Username).Msg("seeded root user")
	return nil
}
