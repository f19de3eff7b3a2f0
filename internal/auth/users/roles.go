// Package users authenticates dashboard logins and issues their session tokens.
package users

// Role names stored on models.User.
const (
	RoleViewer      = "viewer"
	RoleInteractive = "interactive"
	RoleAdmin       = "admin"
)

// Permission is a single capability checked by the HTTP layer.
type Permission string

const (
	CanView      Permission = "view"
	CanInteract  Permission = "interact"
	CanEdit      Permission = "edit"
	CanUpload    Permission = "upload"
	CanDrillDown Permission = "drill_down"
)

// Permissions is the capability set of a role.
type Permissions struct {
	CanView      bool `json:"canView"`
	CanInteract  bool `json:"canInteract"`
	CanEdit      bool `json:"canEdit"`
	CanUpload    bool `json:"canUpload"`
	CanDrillDown bool `json:"canDrillDown"`
}

var rolePermissions = map[string]Permissions{
	RoleViewer: {
		CanView: true,
	},
	RoleInteractive: {
		CanView:      true,
		CanInteract:  true,
		CanDrillDown: true,
	},
	RoleAdmin: {
		CanView:      true,
		CanInteract:  true,
		CanEdit:      true,
		CanUpload:    true,
		CanDrillDown: true,
	},
}

// PermissionsFor returns the capabilities of role. Unknown roles get none.
func PermissionsFor(role string) Permissions {
	return rolePermissions[role]
}

// Has reports whether the set grants p.
func (p Permissions) Has(perm Permission) bool {
	switch perm {
	case CanView:
		return p.CanView
	case CanInteract:
		return p.CanInteract
	case CanEdit:
		return p.CanEdit
	case CanUpload:
		return p.CanUpload
	case CanDrillDown:
		return p.CanDrillDown
	}
	return false
}
