// Package access derives capabilities and navigation from a user's role.
// Everything in this package is a pure function of its inputs so that menu
// rendering and page gating stay deterministic and unit-testable.
package access

import "strings"

// Role is the authorization level assigned to an authenticated user.
// Roles are assigned in user administration; this package only reads them.
type Role string

const (
	RoleOwner        Role = "owner"
	RoleManager      Role = "manager"
	RoleSpaceManager Role = "space_manager"
	RoleReadOnly     Role = "read_only"
	RoleTeacher      Role = "teacher"
	// RoleUnknown stands for an absent or unrecognized role. It carries no
	// elevated capability and renders with the default label.
	RoleUnknown Role = ""
)

// ParseRole maps a stored role string onto the closed Role set. Unknown
// values degrade to RoleUnknown rather than failing: this is a display
// system, not a security boundary of last resort.
func ParseRole(raw string) Role {
	switch Role(strings.TrimSpace(raw)) {
	case RoleOwner:
		return RoleOwner
	case RoleManager:
		return RoleManager
	case RoleSpaceManager:
		return RoleSpaceManager
	case RoleReadOnly:
		return RoleReadOnly
	case RoleTeacher:
		return RoleTeacher
	default:
		return RoleUnknown
	}
}

// Label returns the Arabic display label for the role.
func (r Role) Label() string {
	switch r {
	case RoleOwner:
		return "مالك"
	case RoleManager:
		return "مدير"
	case RoleSpaceManager:
		return "مدير قاعات"
	case RoleTeacher:
		return "معلم"
	case RoleReadOnly:
		return "قراءة فقط"
	default:
		return "مستخدم"
	}
}
