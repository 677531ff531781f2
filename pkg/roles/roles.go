// Package roles defines user roles and the permission defaults they carry.
package roles

// Role is a named user role within a company.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEngineer   Role = "engineer"
	RoleTechnician Role = "technician"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEngineer, RoleTechnician:
		return true
	}
	return false
}

// PermissionSet enumerates the capabilities a role grants.
type PermissionSet struct {
	CanCreateAssets bool `json:"can_create_assets"`
	CanDeleteAssets bool `json:"can_delete_assets"`
	CanManageUsers  bool `json:"can_manage_users"`
	CanViewReports  bool `json:"can_view_reports"`
	CanExportData   bool `json:"can_export_data"`
}

// DerivePermissions returns the permission defaults for a role. It is a pure
// function invoked explicitly at user creation and role change; permissions
// are never rewritten implicitly by a persistence hook. Unknown roles get
// the technician (most restrictive) set.
func DerivePermissions(r Role) PermissionSet {
	switch r {
	case RoleAdmin:
		return PermissionSet{
			CanCreateAssets: true,
			CanDeleteAssets: true,
			CanManageUsers:  true,
			CanViewReports:  true,
			CanExportData:   true,
		}
	case RoleManager:
		return PermissionSet{
			CanCreateAssets: true,
			CanViewReports:  true,
			CanExportData:   true,
		}
	case RoleEngineer:
		return PermissionSet{
			CanCreateAssets: true,
			CanViewReports:  true,
		}
	default:
		return PermissionSet{
			CanViewReports: true,
		}
	}
}
