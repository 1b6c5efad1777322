package enums

import "fmt"

// UserRole represents a marketplace role attached to a user account.
type UserRole string

const (
	UserRoleAdmin           UserRole = "admin"
	UserRoleServiceProvider UserRole = "service_provider"
	UserRoleCustomer        UserRole = "customer"
)

// rolePrecedence orders roles for display resolution; lower index wins.
var rolePrecedence = []UserRole{
	UserRoleAdmin,
	UserRoleServiceProvider,
	UserRoleCustomer,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range rolePrecedence {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range rolePrecedence {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

// ResolveDisplayRole picks the highest-precedence role from the set,
// admin > service_provider > customer. An empty set resolves to customer.
func ResolveDisplayRole(roles []UserRole) UserRole {
	for _, candidate := range rolePrecedence {
		for _, role := range roles {
			if role == candidate {
				return candidate
			}
		}
	}
	return UserRoleCustomer
}
