package constants

const (
	RoleRenter = "renter"
	RoleHost   = "host"
	RoleAdmin  = "admin"
)

// ValidRoles is the set of allowed DB enum values for user role (must match enum app_role).
var ValidRoles = []string{RoleRenter, RoleHost, RoleAdmin}

// roleRank orders roles as a lattice: renter < host < admin.
// An admin can do anything a host can; a host can do anything a renter can.
var roleRank = map[string]int{
	RoleRenter: 0,
	RoleHost:   1,
	RoleAdmin:  2,
}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// HasAtLeast reports whether role grants at least the capabilities of required.
// Unknown roles never qualify.
func HasAtLeast(role, required string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	req, ok := roleRank[required]
	if !ok {
		return false
	}
	return r >= req
}

// HighestRole returns the highest-ranked role in roles, defaulting to renter.
func HighestRole(roles []string) string {
	best := RoleRenter
	for _, r := range roles {
		if rank, ok := roleRank[r]; ok && rank > roleRank[best] {
			best = r
		}
	}
	return best
}
