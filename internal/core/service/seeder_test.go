package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/interfac/user-manager/internal/core/domain"
)

func newTestSeeder() (*Seeder, *UserService, *fakeRoleRepo, *fakePrivilegeRepo) {
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	privileges := newFakePrivilegeRepo()
	userService := NewUserService(users, roles, &recordingAudit{}, &recordingCache{}, zerolog.Nop())
	return NewSeeder(userService, roles, privileges, zerolog.Nop()), userService, roles, privileges
}

func rootCreds() RootCredentials {
	return RootCredentials{Username: "root", Password: "change-me", Email: "root@localhost"}
}

func TestSeeder_InstallsReferenceData(t *testing.T) {
	seeder, users, roles, privileges := newTestSeeder()

	if err := seeder.Run(context.Background(), rootCreds()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	admin, err := roles.FindByName(context.Background(), domain.RoleAdmin)
	if err != nil {
		t.Fatalf("ROLE_ADMIN not seeded: %v", err)
	}
	if len(admin.Privileges) != 2 {
		t.Fatalf("admin role should grant read+write, got %v", admin.Privileges)
	}

	user, err := roles.FindByName(context.Background(), domain.RoleUser)
	if err != nil {
		t.Fatalf("ROLE_USER not seeded: %v", err)
	}
	if len(user.Privileges) != 1 || user.Privileges[0] != domain.PrivilegeRead {
		t.Fatalf("user role should grant read only, got %v", user.Privileges)
	}

	if privileges.count() != 2 {
		t.Fatalf("expected READ_PRIVILEGE and WRITE_PRIVILEGE, got %d rows", privileges.count())
	}

	root, err := users.GetByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("root user not seeded: %v", err)
	}
	if !root.IsAdmin || !root.Enabled {
		t.Fatalf("root must be an enabled admin, got admin=%v enabled=%v", root.IsAdmin, root.Enabled)
	}
	if len(root.Roles) != 1 || root.Roles[0].Name != domain.RoleAdmin {
		t.Fatalf("root role set should be {ROLE_ADMIN}, got %v", domain.RoleNames(root.Roles))
	}
}

func TestSeeder_RunTwiceIsIdempotent(t *testing.T) {
	seeder, users, roles, privileges := newTestSeeder()

	if err := seeder.Run(context.Background(), rootCreds()); err != nil {
		t.Fatalf("first seed failed: %v", err)
	}
	if err := seeder.Run(context.Background(), rootCreds()); err != nil {
		t.Fatalf("second seed failed: %v", err)
	}

	if roles.count() != 2 {
		t.Fatalf("expected exactly one ROLE_ADMIN and one ROLE_USER, got %d roles", roles.count())
	}
	if privileges.count() != 2 {
		t.Fatalf("expected exactly one of each privilege, got %d", privileges.count())
	}

	all, _ := users.List(context.Background())
	if len(all) != 1 {
		t.Fatalf("expected a single root user, got %d records", len(all))
	}
}
