package models

import "fmt"

// Role is the closed set of user roles. Authorization decisions compare
// ranks, never raw strings, so "admin or higher" is expressed once.
type Role string

const (
	RoleDonor      Role = "donor"
	RoleVolunteer  Role = "volunteer"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Rank returns the position of the role in the total order
// donor < volunteer < staff < admin < super_admin. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleDonor:
		return 1
	case RoleVolunteer:
		return 2
	case RoleStaff:
		return 3
	case RoleAdmin:
		return 4
	case RoleSuperAdmin:
		return 5
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r satisfies a route or check that requires min.
func (r Role) AtLeast(min Role) bool {
	return r.Rank() >= min.Rank()
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}
