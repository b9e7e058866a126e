package primary

import (
	"context"
	"time"
)

// EventService defines the primary port for the event lifecycle.
type EventService interface {
	// RegisterEvent creates a pending event owned by the caller.
	RegisterEvent(ctx context.Context, req RegisterEventRequest) (*Event, error)

	// GetEvent retrieves an event visible to the caller.
	GetEvent(ctx context.Context, eventID string) (*Event, error)

	// ListEvents lists events visible to the caller.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)

	// ApproveEvent moves a pending event to approved and notifies its registrar.
	ApproveEvent(ctx context.Context, eventID string) (*TransitionResponse, error)

	// RejectEvent moves a pending event to rejected and notifies its registrar.
	RejectEvent(ctx context.Context, eventID string) (*TransitionResponse, error)

	// CompleteEvent closes an assigned event.
	CompleteEvent(ctx context.Context, eventID string) (*TransitionResponse, error)
}

// RegisterEventRequest contains parameters for registering an event.
type RegisterEventRequest struct {
	Name          string `validate:"required,max=200"`
	EventType     string `validate:"required"`
	ScheduledAt   time.Time
	Location      string `validate:"required,max=200"`
	CrowdSize     int    `validate:"gte=1"`
	PoliceCount   int    `validate:"gte=0"`
	CommandoCount int    `validate:"gte=0"`
	GuardCount    int    `validate:"gte=0"`
}

// EventFilters contains filter options for listing events.
type EventFilters struct {
	Status string
	Limit  int
}

// TransitionResponse contains the result of an event status change.
type TransitionResponse struct {
	Event    *Event
	Delivery *DeliveryOutcome // nil when the transition sends nothing
}

// Event represents an event at the port boundary.
type Event struct {
	ID             string
	Name           string
	EventType      string
	ScheduledAt    time.Time
	Location       string
	CrowdSize      int
	PoliceCount    int
	CommandoCount  int
	GuardCount     int
	TotalRequested int
	Status         string
	RegistrarID    string
	CreatedAt      string
	UpdatedAt      string
}
