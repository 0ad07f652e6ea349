package domain

// ID is used across domain entities.
type ID int64

// Role values carried by authenticated principals.
const (
	RoleManager    = "manager"
	RoleDispatcher = "dispatcher"
	RoleSafety     = "safety"
	RoleAnalyst    = "analyst"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleManager, RoleDispatcher, RoleSafety, RoleAnalyst:
		return true
	default:
		return false
	}
}

// RequestContext carries the authenticated principal for an operation.
// Services check role preconditions against it; they never look at the
// transport layer.
type RequestContext struct {
	UserID   ID     `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// HasRole reports whether the principal holds one of the given roles.
func (rc RequestContext) HasRole(roles ...string) bool {
	for _, r := range roles {
		if rc.Role == r {
			return true
		}
	}
	return false
}

// RequireRole is the standard role gate used by mutating services.
func RequireRole(rc RequestContext, roles ...string) error {
	if rc.HasRole(roles...) {
		return nil
	}
	return ForbiddenError{Role: rc.Role}
}
