package auth

// Operation is a coarse action against a guarded resource
type Operation = string

const (
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Policy is a static table mapping (resource, operation) pairs to the role
// set allowed to perform them. It is configuration, not state: build it once
// at startup and share it, reads are lock-free.
//
// Keeping authorization in one declarative table instead of scattering role
// checks across handlers makes the policy independently testable.
type Policy map[string]map[Operation][]Role

// RequiredRoles returns the role set for the pair and whether the pair is
// known to the policy
func (p Policy) RequiredRoles(resource string, operation Operation) ([]Role, bool) {
	ops, ok := p[resource]
	if !ok {
		return nil, false
	}

	roles, ok := ops[operation]
	if !ok || len(roles) == 0 {
		return nil, false
	}

	return roles, true
}

// Allows reports whether a principal holding the given roles may perform the
// operation. Unknown (resource, operation) pairs fail closed.
func (p Policy) Allows(resource string, operation Operation, roles []Role) bool {
	required, ok := p.RequiredRoles(resource, operation)
	if !ok {
		return false
	}

	return RolesIntersect(roles, required)
}

// DefaultPolicy gates the products resource: any authenticated user may
// read, only admins may write or delete.
func DefaultPolicy() Policy {
	return Policy{
		"products": {
			OpRead:   {RoleUser, RoleAdmin},
			OpCreate: {RoleAdmin},
			OpUpdate: {RoleAdmin},
			OpDelete: {RoleAdmin},
		},
	}
}
