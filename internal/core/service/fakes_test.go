package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/interfac/user-manager/internal/core/domain"
)

// In-memory fakes shared by the service tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return nil, &domain.UsernameExistsError{Username: user.Username}
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) DeleteByID(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) SearchByUsername(_ context.Context, fragment string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.users {
		if containsFragment(u.Username, fragment) {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *fakeUserRepo) ListAll(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func containsFragment(s, fragment string) bool {
	for i := 0; i+len(fragment) <= len(s); i++ {
		if s[i:i+len(fragment)] == fragment {
			return true
		}
	}
	return false
}

type fakeRoleRepo struct {
	mu     sync.Mutex
	nextID int64
	roles  map[string]*domain.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]*domain.Role)}
}

// seeded returns a role repo pre-populated with both reference roles.
func seededRoleRepo() *fakeRoleRepo {
	repo := newFakeRoleRepo()
	_, _ = repo.Save(context.Background(), &domain.Role{Name: domain.RoleAdmin, Privileges: []string{domain.PrivilegeRead, domain.PrivilegeWrite}})
	_, _ = repo.Save(context.Background(), &domain.Role{Name: domain.RoleUser, Privileges: []string{domain.PrivilegeRead}})
	return repo
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[name]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", name, domain.ErrRoleMissing)
	}
	clone := *role
	return &clone, nil
}

func (r *fakeRoleRepo) Save(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.roles[role.Name]; ok {
		clone := *existing
		return &clone, nil
	}
	r.nextID++
	saved := *role
	saved.ID = r.nextID
	r.roles[role.Name] = &saved
	clone := saved
	return &clone, nil
}

func (r *fakeRoleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roles)
}

type fakePrivilegeRepo struct {
	mu         sync.Mutex
	nextID     int64
	privileges map[string]*domain.Privilege
}

func newFakePrivilegeRepo() *fakePrivilegeRepo {
	return &fakePrivilegeRepo{privileges: make(map[string]*domain.Privilege)}
}

func (r *fakePrivilegeRepo) FindByName(_ context.Context, name string) (*domain.Privilege, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.privileges[name]
	if !ok {
		return nil, fmt.Errorf("privilege %s: %w", name, domain.ErrRoleMissing)
	}
	clone := *p
	return &clone, nil
}

func (r *fakePrivilegeRepo) Save(_ context.Context, privilege *domain.Privilege) (*domain.Privilege, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.privileges[privilege.Name]; ok {
		clone := *existing
		return &clone, nil
	}
	r.nextID++
	saved := *privilege
	saved.ID = r.nextID
	r.privileges[privilege.Name] = &saved
	clone := saved
	return &clone, nil
}

func (r *fakePrivilegeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.privileges)
}

// recordingAudit captures entries synchronously.
type recordingAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (a *recordingAudit) Record(entry domain.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *recordingAudit) all() []domain.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.AuditEntry(nil), a.entries...)
}

// recordingCache tracks invalidations; reads always miss.
type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Get(_ context.Context, _ string) (*domain.User, bool) { return nil, false }

func (c *recordingCache) Set(_ context.Context, _ *domain.User) {}

func (c *recordingCache) Invalidate(_ context.Context, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, username)
}
