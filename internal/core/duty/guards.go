package duty

import (
	"fmt"
	"sort"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string // Human-readable reason (populated when not allowed)
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// GuardCandidate provides context for checking a guard before assignment.
type GuardCandidate struct {
	UserID     string
	IsGuard    bool // User holds the security_guard role
	HasProfile bool
	IsApproved bool
}

// CanAssignGuard evaluates whether a user may receive a duty assignment.
// Rule: only approved security guards can be deployed.
func CanAssignGuard(c GuardCandidate) GuardResult {
	if !c.IsGuard {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("user %s is not a security guard", c.UserID),
		}
	}
	if !c.HasProfile || !c.IsApproved {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("guard %s has not been approved yet", c.UserID),
		}
	}
	return GuardResult{Allowed: true}
}

// ActionContext provides context for guard actions on an assignment.
type ActionContext struct {
	AssignmentID string
	Outcome      Outcome
}

// CanReject evaluates whether an assignment can still be rejected.
// Rule: only active assignments can be rejected.
func CanReject(ctx ActionContext) GuardResult {
	return requireActive(ctx, "reject")
}

// CanComplete evaluates whether an assignment can be completed.
// Rule: only active assignments can be completed.
func CanComplete(ctx ActionContext) GuardResult {
	return requireActive(ctx, "complete")
}

// CanUpdateGuards evaluates whether an assignment's guard set can be replaced.
// Rule: only active assignments can be edited.
func CanUpdateGuards(ctx ActionContext) GuardResult {
	return requireActive(ctx, "update guards on")
}

func requireActive(ctx ActionContext, verb string) GuardResult {
	if ctx.Outcome.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot %s assignment %s: already %s", verb, ctx.AssignmentID, ctx.Outcome.Kind),
		}
	}
	return GuardResult{Allowed: true}
}

// DiffGuards compares two guard sets and returns who joined and who left.
// Both results are sorted and free of duplicates.
func DiffGuards(old, updated []string) (added, removed []string) {
	before := toSet(old)
	after := toSet(updated)

	for id := range after {
		if !before[id] {
			added = append(added, id)
		}
	}
	for id := range before {
		if !after[id] {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// Dedupe returns ids without duplicates or blanks, keeping first occurrence order.
func Dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// HasGuard reports whether guardID is one of ids.
func HasGuard(ids []string, guardID string) bool {
	for _, id := range ids {
		if id == guardID {
			return true
		}
	}
	return false
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = true
		}
	}
	return set
}
