package domain

import (
	"errors"
	"fmt"
	"time"
)

// Role names are seed data; every persisted user carries exactly one of them.
const (
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Privilege names granted through roles.
const (
	PrivilegeRead  = "READ_PRIVILEGE"
	PrivilegeWrite = "WRITE_PRIVILEGE"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrForbidden          = errors.New("access forbidden")

	// ErrRoleMissing signals absent seed data. This is a deployment fault,
	// not a user-facing condition; callers treat it as fatal.
	ErrRoleMissing = errors.New("seed role missing")
)

// UsernameExistsError reports a registration attempt against a taken username.
type UsernameExistsError struct {
	Username string
}

func (e *UsernameExistsError) Error() string {
	return fmt.Sprintf("a user already exists with username %q", e.Username)
}

// Is makes errors.Is match any UsernameExistsError regardless of the
// username carried by the instance.
func (e *UsernameExistsError) Is(target error) bool {
	_, ok := target.(*UsernameExistsError)
	return ok
}

// User is the core account record. MatchingPassword is a transient
// confirmation value carried only between the form and validation; it is
// never persisted.
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	PasswordHash     string    `json:"-"`
	MatchingPassword string    `json:"-"`
	BirthDate        time.Time `json:"birth_date,omitempty"`
	IsAdmin          bool      `json:"is_admin"`
	Enabled          bool      `json:"enabled"`
	CreatedAt        time.Time `json:"created_at"`
	ModifiedAt       time.Time `json:"modified_at"`
	ModifiedBy       string    `json:"modified_by,omitempty"`
	Roles            []Role    `json:"roles"`
}

// Role is a named authority bundle granting a set of privileges.
type Role struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Privileges []string `json:"privileges"`
}

// Privilege is a fine-grained permission referenced by roles.
type Privilege struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// DeriveRoles maps the admin flag to the single role a user holds. Both the
// registration and edit paths go through here so the derivation cannot drift.
func DeriveRoles(isAdmin bool, admin, user Role) []Role {
	if isAdmin {
		return []Role{admin}
	}
	return []Role{user}
}

// RoleNames flattens a role set to its names, in order.
func RoleNames(roles []Role) []string {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return names
}

// PrivilegeNames collects the distinct privileges granted by a role set.
func PrivilegeNames(roles []Role) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range roles {
		for _, p := range r.Privileges {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			names = append(names, p)
		}
	}
	return names
}
