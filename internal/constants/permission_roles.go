package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// This single map is the authorization source of truth: route middleware and
// service-layer capability re-checks both go through AllowedRole, so UI gating
// and server enforcement can never drift apart.
var PermissionRoles = map[string][]string{
	ViewEnquiries:    {Viewer, Manager, Admin, Superadmin},
	EditEnquiry:      {Manager, Admin, Superadmin},
	ArchiveEnquiry:   {Manager, Admin, Superadmin},
	RestoreEnquiry:   {Manager, Admin, Superadmin},
	DeleteEnquiry:    {Admin, Superadmin},
	RecordInvestment: {Manager, Admin, Superadmin},
	RecordPayment:    {Admin, Superadmin},
	ViewPortfolio:    {Investor, Viewer, Manager, Admin, Superadmin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
