package auth

import "github.com/goliatone/go-errors"

// Role is a coarse grant attached to a user. Stored uppercase to match the
// wire format of the claims.
type Role = string

const (
	// RoleUser may read protected resources
	RoleUser Role = "USER"
	// RoleAdmin may read, create, edit, and delete protected resources
	RoleAdmin Role = "ADMIN"
)

// ParseRole safely parses a string into a Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// DefaultRoles is the role set granted to newly registered users
func DefaultRoles() []Role {
	return []Role{RoleUser}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []Role {
	return []Role{RoleUser, RoleAdmin}
}

// RolesIntersect reports whether the two role sets share at least one member
func RolesIntersect(have, want []Role) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

// ValidateRoles ensures every member of the set parses to a known role and
// the set is not empty. Users always carry at least one role.
func ValidateRoles(roles []Role) error {
	if len(roles) == 0 {
		return errors.New("user has an empty role set", errors.CategoryValidation).
			WithTextCode("INVALID_ROLE")
	}

	for _, r := range roles {
		if !IsValidRole(r) {
			return errors.New("user has an unknown or invalid role", errors.CategoryValidation).
				WithTextCode("INVALID_ROLE").
				WithMetadata(map[string]any{"role": r})
		}
	}

	return nil
}
