package entity

import "strings"

// Role is the closed set of account roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleNormalUser Role = "normal_user"
	RoleStoreOwner Role = "store_owner"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleNormalUser, RoleStoreOwner}

// ParseRole normalises a raw role string, reporting false for unknown values.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleNormalUser:
		return RoleNormalUser, true
	case RoleStoreOwner:
		return RoleStoreOwner, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNormalUser, RoleStoreOwner:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
