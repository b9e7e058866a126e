package primary

import "context"

// DutyService defines the primary port for duty assignments.
type DutyService interface {
	// AssignDuty links guards to an approved event and notifies the newly linked ones.
	AssignDuty(ctx context.Context, req AssignDutyRequest) (*AssignDutyResponse, error)

	// UpdateAssignmentGuards replaces the guard set of an assignment, notifying only added guards.
	UpdateAssignmentGuards(ctx context.Context, req UpdateAssignmentGuardsRequest) (*UpdateAssignmentGuardsResponse, error)

	// RejectAssignment records the calling guard's rejection of an assignment.
	RejectAssignment(ctx context.Context, assignmentID, reason string) (*GuardActionResponse, error)

	// CompleteAssignment records the calling guard's completion of an assignment.
	CompleteAssignment(ctx context.Context, assignmentID string) (*GuardActionResponse, error)

	// GetAssignment retrieves an assignment visible to the caller.
	GetAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// ListAssignments lists assignments visible to the caller.
	ListAssignments(ctx context.Context, filters AssignmentFilters) ([]*Assignment, error)
}

// AssignDutyRequest contains parameters for assigning guards to an event.
type AssignDutyRequest struct {
	EventID  string   `validate:"required"`
	GuardIDs []string `validate:"required,min=1,dive,required"`
}

// AssignDutyResponse contains the result of assigning guards.
type AssignDutyResponse struct {
	Event           *Event
	Created         []*Assignment
	AlreadyAssigned []string                   // guard IDs that were linked before this call
	Deliveries      map[string]DeliveryOutcome // keyed by guard ID, new links only
}

// UpdateAssignmentGuardsRequest contains parameters for replacing an assignment's guards.
type UpdateAssignmentGuardsRequest struct {
	AssignmentID string   `validate:"required"`
	GuardIDs     []string `validate:"required,min=1,dive,required"`
}

// UpdateAssignmentGuardsResponse contains the result of replacing an assignment's guards.
type UpdateAssignmentGuardsResponse struct {
	Assignment *Assignment
	Added      []string
	Removed    []string
	Deliveries map[string]DeliveryOutcome // keyed by guard ID, added guards only
}

// GuardActionResponse contains the result of a guard rejecting or completing an assignment.
type GuardActionResponse struct {
	Assignment    *Assignment
	AdminDelivery DeliveryOutcome
	// AllAssignmentsCompleted is true when every assignment of the event is now completed.
	// The event itself is not closed automatically.
	AllAssignmentsCompleted bool
}

// AssignmentFilters contains filter options for listing assignments.
type AssignmentFilters struct {
	EventID string
	Outcome string
	Limit   int
}

// Assignment represents a duty assignment at the port boundary.
type Assignment struct {
	ID         string
	EventID    string
	EventName  string
	GuardIDs   []string
	Outcome    string
	Reason     string
	Details    string
	AssignedAt string
}
