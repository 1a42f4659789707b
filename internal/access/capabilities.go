package access

// Capabilities is the set of named permissions derived from a role and the
// session admin flag. It is computed, never stored: two calls with the same
// inputs always agree.
type Capabilities struct {
	// CanCreateBooking permits creating new bookings.
	CanCreateBooking bool
	// IsOwnerOrAdmin gates financial reports, user administration and the
	// audit log.
	IsOwnerOrAdmin bool
	// IsResourceManager gates hall/teacher/subject/stage management.
	IsResourceManager bool
	// IsSystemAdmin mirrors the session admin flag for display purposes; it
	// grants nothing the role does not already grant.
	IsSystemAdmin bool
}

// ResolveCapabilities computes the capability set for a role. The switch is
// exhaustive over the closed role set so that adding a role forces a
// decision here.
func ResolveCapabilities(role Role, isAdmin bool) Capabilities {
	caps := Capabilities{IsSystemAdmin: isAdmin}
	switch role {
	case RoleOwner, RoleManager:
		caps.CanCreateBooking = true
		caps.IsOwnerOrAdmin = true
		caps.IsResourceManager = true
	case RoleSpaceManager:
		caps.IsResourceManager = true
	case RoleReadOnly, RoleTeacher, RoleUnknown:
		// View-only roles keep the zero capability set.
	}
	return caps
}
