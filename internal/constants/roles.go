package constants

const (
	Superadmin = "superadmin"
	Admin      = "admin"
	Manager    = "manager"
	Viewer     = "viewer"
	Investor   = "investor"
)

// ValidRoles is the set of allowed DB enum values for user role (must match enum_Users_role).
var ValidRoles = []string{Viewer, Manager, Admin, Superadmin, Investor}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdminRole reports whether the role carries full administrative privilege.
// Hard deletion re-checks this in the service layer, not only at the route.
func IsAdminRole(role string) bool {
	return role == Admin || role == Superadmin
}
