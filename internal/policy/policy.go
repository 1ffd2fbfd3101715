// Package policy is the single evaluation point for role-based access
// checks. Handlers and services ask Authorize instead of re-implementing
// role comparisons at each call site.
package policy

import "github.com/famnest/backend/internal/models"

// Action names an operation subject to an access check.
type Action string

const (
	ActionBroadcast   Action = "notifications.broadcast"
	ActionManageUsers Action = "users.manage"
	ActionModerate    Action = "content.moderate"
	ActionViewAudit   Action = "audit.view"
	ActionCreate      Action = "content.create"
	ActionRead        Action = "content.read"
)

// adminOnly actions require the admin role regardless of anything else.
var adminOnly = map[Action]bool{
	ActionBroadcast:   true,
	ActionManageUsers: true,
	ActionModerate:    true,
	ActionViewAudit:   true,
}

// Decision is the result of an access check. Reason is set when denied.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Authorize evaluates whether actor may perform action.
func Authorize(actor *models.User, action Action) Decision {
	if actor == nil {
		return deny("unauthenticated")
	}
	if adminOnly[action] {
		if actor.Role != models.RoleAdmin {
			return deny("admin role required")
		}
		return allow()
	}
	// Pending members are read-only until an admin approves them.
	if actor.Role == models.RolePending && action == ActionCreate {
		return deny("membership pending approval")
	}
	return allow()
}
