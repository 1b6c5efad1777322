package enums

import "testing"

func TestParseUserRole(t *testing.T) {
	for _, value := range []string{"admin", "service_provider", "customer"} {
		role, err := ParseUserRole(value)
		if err != nil {
			t.Fatalf("parse %q: %v", value, err)
		}
		if role.String() != value {
			t.Fatalf("expected %q, got %q", value, role)
		}
	}

	if _, err := ParseUserRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := ParseUserRole(""); err == nil {
		t.Fatal("expected error for empty role")
	}
}

func TestResolveDisplayRole(t *testing.T) {
	cases := []struct {
		roles []UserRole
		want  UserRole
	}{
		{[]UserRole{UserRoleCustomer}, UserRoleCustomer},
		{[]UserRole{UserRoleCustomer, UserRoleServiceProvider}, UserRoleServiceProvider},
		{[]UserRole{UserRoleServiceProvider, UserRoleAdmin, UserRoleCustomer}, UserRoleAdmin},
		{nil, UserRoleCustomer},
	}
	for _, tc := range cases {
		if got := ResolveDisplayRole(tc.roles); got != tc.want {
			t.Errorf("ResolveDisplayRole(%v): expected %s, got %s", tc.roles, tc.want, got)
		}
	}
}

func TestUserRoleIsValid(t *testing.T) {
	if !UserRoleAdmin.IsValid() {
		t.Fatal("admin must be valid")
	}
	if UserRole("root").IsValid() {
		t.Fatal("unknown role must be invalid")
	}
}
