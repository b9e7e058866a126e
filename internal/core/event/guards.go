package event

import (
	"fmt"
	"time"
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

// TransitionContext provides context for event status guards.
type TransitionContext struct {
	EventID string
	Current Status
	Action  Action
}

// CanTransition evaluates whether action is legal from the event's current status.
// Rule: only edges of the lifecycle graph are allowed.
func CanTransition(ctx TransitionContext) GuardResult {
	if _, ok := Next(ctx.Current, ctx.Action); !ok {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot %s event %s: status is %s", ctx.Action, ctx.EventID, ctx.Current),
		}
	}
	return GuardResult{Allowed: true}
}

// Type is the category an event is registered under.
type Type string

const (
	TypeNationalPolitical   Type = "National & Political Events"
	TypeReligiousCultural   Type = "Religious & Cultural Events"
	TypeEducationalAcademic Type = "Educational & Academic Events"
	TypeSportsEntertainment Type = "Sports & Entertainment Events"
	TypeSocialCorporate     Type = "Social & Corporate Events"
	TypeOther               Type = "other"
)

// Types lists every accepted event type in display order.
func Types() []Type {
	return []Type{
		TypeNationalPolitical,
		TypeReligiousCultural,
		TypeEducationalAcademic,
		TypeSportsEntertainment,
		TypeSocialCorporate,
		TypeOther,
	}
}

// ValidType reports whether t is an accepted event type.
func ValidType(t Type) bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}

// RegisterContext provides context for event registration guards.
type RegisterContext struct {
	Name          string
	CrowdSize     int
	PoliceCount   int
	CommandoCount int
	GuardCount    int
}

// CanRegisterEvent evaluates whether the requested personnel make sense.
// Rule: crowd size is positive, counts are non-negative and at least one person is requested.
func CanRegisterEvent(ctx RegisterContext) GuardResult {
	if ctx.CrowdSize <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("event %q: crowd size must be positive", ctx.Name),
		}
	}
	if ctx.PoliceCount < 0 || ctx.CommandoCount < 0 || ctx.GuardCount < 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("event %q: personnel counts cannot be negative", ctx.Name),
		}
	}
	if ctx.PoliceCount+ctx.CommandoCount+ctx.GuardCount == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("event %q: at least one police officer, commando or guard must be requested", ctx.Name),
		}
	}
	return GuardResult{Allowed: true}
}

// DefaultRating is stored when a review gives no rating.
const DefaultRating = 5

// ReviewContext provides context for review guards.
type ReviewContext struct {
	EventID     string
	Status      Status
	ScheduledAt time.Time
	Now         time.Time
	Rating      int
}

// CanReview evaluates whether an event can be reviewed now.
// Rule: the event went ahead (approved, assigned or completed), its scheduled
// time has passed and the rating is between 1 and 5.
func CanReview(ctx ReviewContext) GuardResult {
	if ctx.Status == StatusPending || ctx.Status == StatusRejected {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot review event %s: status is %s", ctx.EventID, ctx.Status),
		}
	}
	if ctx.ScheduledAt.After(ctx.Now) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("event %s can only be reviewed after it has taken place", ctx.EventID),
		}
	}
	if ctx.Rating < 1 || ctx.Rating > 5 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("rating must be between 1 and 5, got %d", ctx.Rating),
		}
	}
	return GuardResult{Allowed: true}
}
