package auth

import (
	"strings"

	"interviewhub/internal/shared/errs"
)

// Role is one of the three account kinds.
type Role string

const (
	RoleHR          Role = "HR"
	RoleInterviewer Role = "Interviewer"
	RoleStudent     Role = "Student"
)

// ParseRole matches a role name case-insensitively.
func ParseRole(raw string) (Role, bool) {
	for _, r := range []Role{RoleHR, RoleInterviewer, RoleStudent} {
		if strings.EqualFold(strings.TrimSpace(raw), string(r)) {
			return r, true
		}
	}
	return "", false
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role Role
}

// Is reports whether the actor holds one of the roles.
func (a Actor) Is(roles ...Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Require returns an unauthorized error for an anonymous actor and a forbidden
// error when the actor holds none of the roles.
func (a Actor) Require(roles ...Role) error {
	if strings.TrimSpace(a.ID) == "" {
		return errs.Unauthorized("authentication required")
	}
	if len(roles) == 0 || a.Is(roles...) {
		return nil
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return errs.Forbidden("role " + string(a.Role) + " is not authorized; requires " + strings.Join(names, " or "))
}
