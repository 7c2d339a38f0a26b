package domain

import "fmt"

// Policy is a static allow-list of roles. There is no inheritance: a role is
// permitted only when it is listed.
type Policy struct {
	Name  string
	Roles []Role
}

var (
	PolicyAdminOnly         = Policy{Name: "admin-only", Roles: []Role{RoleAdmin}}
	PolicyAdminOrSupervisor = Policy{Name: "admin-or-supervisor", Roles: []Role{RoleAdmin, RoleSupervisor}}
	PolicyAnyRole           = Policy{Name: "any-role", Roles: []Role{RoleAdmin, RoleSupervisor, RoleOperador}}
)

// Allows reports whether role is in the allow-list.
func (p Policy) Allows(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize checks the principal against the policy. A missing principal is
// an authentication failure, never a forbidden one.
func Authorize(principal *Principal, policy Policy) error {
	if principal == nil {
		return ErrUnauthenticated
	}
	if !policy.Allows(principal.Role) {
		return fmt.Errorf("%w: role %s not allowed by %s", ErrForbidden, principal.Role, policy.Name)
	}
	return nil
}
