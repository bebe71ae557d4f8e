package domain

import "time"

// Role identifies the viewer class
type Role int

const (
	RoleStandard Role = iota
	RoleContentManager
	RoleAdmin
)

// String returns the wire name of the role
func (r Role) String() string {
	switch r {
	case RoleStandard:
		return "standard"
	case RoleContentManager:
		return "content_manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ParseRole maps a wire name back to a Role. Unknown names map to RoleStandard,
// the least privileged class.
func ParseRole(s string) Role {
	switch s {
	case "content_manager":
		return RoleContentManager
	case "admin":
		return RoleAdmin
	default:
		return RoleStandard
	}
}

// ViewerContext describes the signed-in viewer for access decisions.
type ViewerContext struct {
	Role      Role
	VIP       bool
	BirthDate *time.Time // nil when the platform has no birth date on file
	Email     string

	// ReadOnlyImpersonation marks an administrator browsing the standard
	// viewer surface. Playback and view-count side effects are never
	// permitted in this mode.
	ReadOnlyImpersonation bool
}

// Age returns the viewer's age in whole years at the given instant,
// decrementing when the current month/day precedes the birth month/day.
// The second return is false when no birth date is known.
func (v ViewerContext) Age(now time.Time) (int, bool) {
	if v.BirthDate == nil {
		return 0, false
	}
	b := *v.BirthDate
	years := now.Year() - b.Year()
	if now.Month() < b.Month() || (now.Month() == b.Month() && now.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}
