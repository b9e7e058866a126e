// Package event contains the pure business logic for the event lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package event

// Status represents the possible states of an event.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusAssigned  Status = "assigned"
	StatusCompleted Status = "completed"
)

// Action is a request to move an event along its lifecycle.
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionAssign   Action = "assign"
	ActionComplete Action = "complete"
)

// transitions is the complete lifecycle graph. Nothing leads back to pending,
// and rejected/completed have no outgoing edges.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionApprove: StatusApproved,
		ActionReject:  StatusRejected,
	},
	StatusApproved: {
		ActionAssign: StatusAssigned,
	},
	StatusAssigned: {
		ActionAssign:   StatusAssigned,
		ActionComplete: StatusCompleted,
	},
}

// Next returns the status reached by applying action to current.
// ok is false when the graph has no such edge.
func Next(current Status, action Action) (next Status, ok bool) {
	next, ok = transitions[current][action]
	return next, ok
}

// InitialStatus returns the initial status for a newly registered event.
func InitialStatus() Status {
	return StatusPending
}

// IsTerminal reports whether no action can leave s.
func IsTerminal(s Status) bool {
	return len(transitions[s]) == 0
}

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusAssigned, StatusCompleted:
		return true
	}
	return false
}
