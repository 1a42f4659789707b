package access

// Resolution bundles everything the layout needs for the current user.
type Resolution struct {
	Capabilities Capabilities
	Navigation   []Section
	RoleLabel    string
}

// Resolve derives capabilities, the visible navigation tree and the role
// display label from a role and admin flag. It performs no I/O and is safe
// to call on every render.
func Resolve(role Role, isAdmin bool) Resolution {
	caps := ResolveCapabilities(role, isAdmin)
	return Resolution{
		Capabilities: caps,
		Navigation:   BuildNavigation(caps),
		RoleLabel:    role.Label(),
	}
}
