// Package access contains the role-gated access policy for DESAS.
// This is part of the Functional Core - no I/O, only pure functions.
package access

import "fmt"

// Role is the single classification carried by every user.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleEventRegistrar Role = "event_registrar"
	RoleSecurityGuard  Role = "security_guard"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEventRegistrar, RoleSecurityGuard:
		return true
	}
	return false
}

// Identity is the authenticated caller as seen by the policy.
// A nil *Identity means the caller is not authenticated.
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin returns true for admin identities.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// DenialKind separates the two observable failure modes of the policy.
type DenialKind string

const (
	DenialNone            DenialKind = ""
	DenialUnauthenticated DenialKind = "unauthenticated"
	DenialForbidden       DenialKind = "forbidden"
)

// Decision represents the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Kind    DenialKind
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the decision as an error if not allowed, nil otherwise.
func (d Decision) Error() error {
	if d.Allowed {
		return nil
	}
	return fmt.Errorf("%s", d.Reason)
}

func allow() Decision {
	return Decision{Allowed: true}
}

func unauthenticated() Decision {
	return Decision{
		Allowed: false,
		Kind:    DenialUnauthenticated,
		Reason:  "you need to be logged in to perform this action",
	}
}

func forbidden(reason string) Decision {
	return Decision{
		Allowed: false,
		Kind:    DenialForbidden,
		Reason:  reason,
	}
}

// RequireAuthenticated allows any logged-in identity.
func RequireAuthenticated(id *Identity) Decision {
	if id == nil {
		return unauthenticated()
	}
	return allow()
}

// RequireRole allows identities holding role. Admin passes every role check.
func RequireRole(id *Identity, role Role) Decision {
	if id == nil {
		return unauthenticated()
	}
	if id.Role == role || id.Role == RoleAdmin {
		return allow()
	}
	return forbidden(fmt.Sprintf("user %s (%s) does not have permission: %s role required", id.UserID, id.Role, role))
}

// CanApproveEvent evaluates whether the caller can approve an event.
// Rule: admin only.
func CanApproveEvent(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// CanRejectEvent evaluates whether the caller can reject an event.
// Rule: admin only.
func CanRejectEvent(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// CanCompleteEvent evaluates whether the caller can close an event.
// Rule: admin only.
func CanCompleteEvent(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// CanAssignDuty evaluates whether the caller can assign guards to an event.
// Rule: admin only.
func CanAssignDuty(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// CanManageGuards evaluates whether the caller can approve guard profiles.
// Rule: admin only.
func CanManageGuards(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// CanRegisterEvent evaluates whether the caller can register a new event.
// Rule: registrars (and admins).
func CanRegisterEvent(id *Identity) Decision {
	return RequireRole(id, RoleEventRegistrar)
}

// EventViewContext provides context for event visibility checks.
type EventViewContext struct {
	EventID     string
	RegistrarID string
}

// CanViewEvent evaluates whether the caller can see an event.
// Rule: admins see everything, registrars see the events they own.
func CanViewEvent(id *Identity, ctx EventViewContext) Decision {
	if id == nil {
		return unauthenticated()
	}
	if id.IsAdmin() {
		return allow()
	}
	if id.Role == RoleEventRegistrar && id.UserID == ctx.RegistrarID {
		return allow()
	}
	return forbidden(fmt.Sprintf("user %s cannot view event %s", id.UserID, ctx.EventID))
}

// CanReviewEvent evaluates whether the caller can review an event.
// Rule: only the registrar who owns the event.
func CanReviewEvent(id *Identity, ctx EventViewContext) Decision {
	if id == nil {
		return unauthenticated()
	}
	if id.Role == RoleEventRegistrar && id.UserID == ctx.RegistrarID {
		return allow()
	}
	return forbidden(fmt.Sprintf("user %s cannot review event %s", id.UserID, ctx.EventID))
}

// CanListReviews evaluates whether the caller can read event reviews.
// Rule: any authenticated user.
func CanListReviews(id *Identity) Decision {
	return RequireAuthenticated(id)
}

// CanViewDashboard evaluates whether the caller can read the roster and event counts.
// Rule: admin only.
func CanViewDashboard(id *Identity) Decision {
	return RequireRole(id, RoleAdmin)
}

// AssignmentActionContext provides context for guard actions on an assignment.
type AssignmentActionContext struct {
	AssignmentID string
	IsMember     bool // Caller is one of the assignment's guards
}

// CanActOnAssignment evaluates whether the caller can reject or complete an assignment.
// Rule: the caller must hold the guard role AND be a member of the assignment.
// Admin passes the role check but still has to be a member.
func CanActOnAssignment(id *Identity, ctx AssignmentActionContext) Decision {
	if d := RequireRole(id, RoleSecurityGuard); !d.Allowed {
		return d
	}
	if !ctx.IsMember {
		return forbidden(fmt.Sprintf("user %s is not assigned to %s", id.UserID, ctx.AssignmentID))
	}
	return allow()
}

// CanListMessageLogs evaluates whether the caller can read the whole message log.
// Non-admins are allowed but restricted to their own messages by the caller.
func CanListMessageLogs(id *Identity) Decision {
	return RequireAuthenticated(id)
}
