package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestDeriveRoles(t *testing.T) {
	admin := Role{ID: 1, Name: RoleAdmin, Privileges: []string{PrivilegeRead, PrivilegeWrite}}
	user := Role{ID: 2, Name: RoleUser, Privileges: []string{PrivilegeRead}}

	got := DeriveRoles(true, admin, user)
	if len(got) != 1 || got[0].Name != RoleAdmin {
		t.Fatalf("expected exactly {ROLE_ADMIN}, got %v", RoleNames(got))
	}

	got = DeriveRoles(false, admin, user)
	if len(got) != 1 || got[0].Name != RoleUser {
		t.Fatalf("expected exactly {ROLE_USER}, got %v", RoleNames(got))
	}
}

func TestPrivilegeNames_Distinct(t *testing.T) {
	roles := []Role{
		{Name: RoleAdmin, Privileges: []string{PrivilegeRead, PrivilegeWrite}},
		{Name: RoleUser, Privileges: []string{PrivilegeRead}},
	}

	got := PrivilegeNames(roles)
	if len(got) != 2 || got[0] != PrivilegeRead || got[1] != PrivilegeWrite {
		t.Fatalf("expected [READ_PRIVILEGE WRITE_PRIVILEGE], got %v", got)
	}
}

func TestUsernameExistsError(t *testing.T) {
	err := error(&UsernameExistsError{Username: "alice"})

	if !strings.Contains(err.Error(), "alice") {
		t.Fatalf("message should carry the username: %q", err.Error())
	}
	if !errors.Is(err, &UsernameExistsError{}) {
		t.Fatalf("errors.Is should match any UsernameExistsError")
	}

	wrapped := errors.Join(errors.New("outer"), err)
	var target *UsernameExistsError
	if !errors.As(wrapped, &target) || target.Username != "alice" {
		t.Fatalf("errors.As should recover the username through wrapping")
	}
}
