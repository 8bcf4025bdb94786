package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/interfac/user-manager/internal/core/domain"
	"github.com/interfac/user-manager/internal/core/ports"
)

// UserService implements registration, editing and the plain lookup
// operations over the user store.
type UserService struct {
	users  ports.UserRepository
	roles  ports.RoleRepository
	audit  ports.AuditRecorder
	cache  ports.UserCache
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, roles ports.RoleRepository, audit ports.AuditRecorder, cache ports.UserCache, logger zerolog.Logger) *UserService {
	return &UserService{users: users, roles: roles, audit: audit, cache: cache, logger: logger}
}

// Register persists a new user. Field-level validation has already happened
// at the boundary; here only the cross-record invariants apply: the username
// must be free, and the role set is derived solely from the admin flag.
//
// The exists check and the insert are not atomic; the unique index on
// username backstops concurrent registrations, and the repository translates
// that rejection into the same typed error.
func (s *UserService) Register(ctx context.Context, principal string, input ports.RegisterInput) (*domain.User, error) {
	exists, err := s.UsernameExists(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.UsernameExistsError{Username: input.Username}
	}

	adminRole, userRole, err := s.seedRoles(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	candidate := &domain.User{
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		BirthDate:    input.BirthDate,
		IsAdmin:      input.IsAdmin,
		Enabled:      input.Enabled,
		CreatedAt:    now,
		ModifiedAt:   now,
		ModifiedBy:   principal,
		Roles:        domain.DeriveRoles(input.IsAdmin, *adminRole, *userRole),
	}

	created, err := s.users.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", created.Username).
		Int64("user_id", created.ID).
		Str("role", created.Roles[0].Name).
		Str("principal", principal).
		Msg("user registered")

	s.cache.Invalidate(ctx, created.Username)
	s.audit.Record(domain.AuditEntry{
		Action:    domain.AuditRegistered,
		UserID:    created.ID,
		Username:  created.Username,
		Principal: principal,
		At:        now,
	})

	return created, nil
}

// Edit re-derives the role set from the admin flag and updates the record.
// Username uniqueness is not re-checked here; the edited record's username is
// trusted to be unchanged or already validated by the caller.
func (s *UserService) Edit(ctx context.Context, principal string, input ports.EditInput) (*domain.User, error) {
	existing, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	adminRole, userRole, err := s.seedRoles(ctx)
	if err != nil {
		return nil, err
	}

	hash := existing.PasswordHash
	if input.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	updated := &domain.User{
		ID:           existing.ID,
		Username:     input.Username,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hash,
		BirthDate:    input.BirthDate,
		IsAdmin:      input.IsAdmin,
		Enabled:      input.Enabled,
		CreatedAt:    existing.CreatedAt,
		ModifiedAt:   time.Now().UTC(),
		ModifiedBy:   principal,
		Roles:        domain.DeriveRoles(input.IsAdmin, *adminRole, *userRole),
	}

	if err := s.users.Update(ctx, updated); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("username", updated.Username).
		Int64("user_id", updated.ID).
		Str("role", updated.Roles[0].Name).
		Str("principal", principal).
		Msg("user updated")

	s.cache.Invalidate(ctx, existing.Username)
	if updated.Username != existing.Username {
		s.cache.Invalidate(ctx, updated.Username)
	}
	s.audit.Record(domain.AuditEntry{
		Action:    domain.AuditUpdated,
		UserID:    updated.ID,
		Username:  updated.Username,
		Principal: principal,
		At:        updated.ModifiedAt,
	})

	return updated, nil
}

// Delete removes a user by id. Deleting an absent id surfaces the store's
// not-found error unchanged.
func (s *UserService) Delete(ctx context.Context, principal string, id int64) error {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("username", existing.Username).
		Int64("user_id", id).
		Str("principal", principal).
		Msg("user deleted")

	s.cache.Invalidate(ctx, existing.Username)
	s.audit.Record(domain.AuditEntry{
		Action:    domain.AuditDeleted,
		UserID:    id,
		Username:  existing.Username,
		Principal: principal,
		At:        time.Now().UTC(),
	})

	return nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// GetByUsername serves the profile and login lookups; it is the hot read
// path, so it goes through the cache.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if cached, ok := s.cache.Get(ctx, username); ok {
		return cached, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, user)
	return user, nil
}

func (s *UserService) Search(ctx context.Context, fragment string) ([]domain.User, error) {
	return s.users.SearchByUsername(ctx, fragment)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

// UsernameExists reports whether any record holds the given username.
func (s *UserService) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.users.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return false, err
}

// seedRoles resolves the two reference roles. A miss here means the seed step
// never ran against this store; the error class is configuration, not
// business, and is logged loudly before propagating.
func (s *UserService) seedRoles(ctx context.Context) (*domain.Role, *domain.Role, error) {
	adminRole, err := s.roles.FindByName(ctx, domain.RoleAdmin)
	if err != nil {
		s.logger.Error().Err(err).Str("role", domain.RoleAdmin).Msg("seed role lookup failed")
		return nil, nil, fmt.Errorf("resolve %s: %w", domain.RoleAdmin, err)
	}
	userRole, err := s.roles.FindByName(ctx, domain.RoleUser)
	if err != nil {
		s.logger.Error().Err(err).Str("role", domain.RoleUser).Msg("seed role lookup failed")
		return nil, nil, fmt.Errorf("resolve %s: %w", domain.RoleUser, err)
	}
	return adminRole, userRole, nil
}
