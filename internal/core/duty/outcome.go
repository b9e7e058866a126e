// Package duty contains the pure business logic for duty assignments.
// This is part of the Functional Core - no I/O, only pure functions.
package duty

import "strings"

// OutcomeKind tags the state of a duty assignment.
type OutcomeKind string

const (
	OutcomeActive    OutcomeKind = "active"
	OutcomeRejected  OutcomeKind = "rejected"
	OutcomeCompleted OutcomeKind = "completed"
)

const (
	rejectedPrefix   = "Rejected: "
	completedDetails = "Completed successfully"

	// DefaultRejectReason is used when a guard rejects without saying why.
	DefaultRejectReason = "No reason provided"
)

// Outcome is the tagged state of an assignment: Active, Rejected(reason) or Completed.
// Reason is only meaningful for OutcomeRejected.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

// Active returns the outcome of a freshly created assignment.
func Active() Outcome {
	return Outcome{Kind: OutcomeActive}
}

// Rejected returns a rejection outcome. An empty reason becomes DefaultRejectReason.
func Rejected(reason string) Outcome {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectReason
	}
	return Outcome{Kind: OutcomeRejected, Reason: reason}
}

// Completed returns the completion outcome.
func Completed() Outcome {
	return Outcome{Kind: OutcomeCompleted}
}

// IsTerminal reports whether no further guard action is possible.
func (o Outcome) IsTerminal() bool {
	return o.Kind == OutcomeRejected || o.Kind == OutcomeCompleted
}

// Details renders the outcome as the human-readable note shown next to an assignment.
func (o Outcome) Details() string {
	switch o.Kind {
	case OutcomeRejected:
		return rejectedPrefix + o.Reason
	case OutcomeCompleted:
		return completedDetails
	default:
		return ""
	}
}

// ParseDetails recovers an outcome from a free-text details note.
// Unrecognised text is treated as an active assignment.
func ParseDetails(details string) Outcome {
	switch {
	case strings.HasPrefix(details, rejectedPrefix):
		return Rejected(strings.TrimPrefix(details, rejectedPrefix))
	case details == completedDetails:
		return Completed()
	default:
		return Active()
	}
}

// ParseOutcome rebuilds an outcome from its stored kind and reason.
func ParseOutcome(kind, reason string) Outcome {
	switch OutcomeKind(kind) {
	case OutcomeRejected:
		return Rejected(reason)
	case OutcomeCompleted:
		return Completed()
	default:
		return Active()
	}
}
