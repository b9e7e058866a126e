// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is wrapped by repositories when a lookup misses.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned by conditional writes whose precondition no longer holds,
// and by inserts that would violate a uniqueness rule.
var ErrConflict = errors.New("conflict")

// ErrIDTaken is returned by Create when the generated ID is already in use.
// GetNextID is not reserved, so callers fetch a new ID and try again.
var ErrIDTaken = errors.New("id already taken")

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by its ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*UserRecord, error)

	// List retrieves users matching the given filters.
	List(ctx context.Context, filters UserFilters) ([]*UserRecord, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)

	// Delete removes a user. Profiles and assignment links cascade.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available user ID.
	GetNextID(ctx context.Context) (string, error)
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID           string
	Username     string
	Email        string
	Phone        string // Empty string means null
	Organization string // Empty string means null
	Role         string // 'admin', 'event_registrar', 'security_guard'
	CreatedAt    string
	UpdatedAt    string
}

// UserFilters contains filter options for querying users.
type UserFilters struct {
	Role  string
	Limit int
}

// GuardProfileRepository defines the secondary port for guard profile persistence.
type GuardProfileRepository interface {
	// Upsert creates or replaces the profile of a guard.
	Upsert(ctx context.Context, profile *GuardProfileRecord) error

	// GetByUserID retrieves the profile for a guard user.
	GetByUserID(ctx context.Context, userID string) (*GuardProfileRecord, error)

	// SetApproved flips the approval flag.
	SetApproved(ctx context.Context, userID string, approved bool) error

	// List retrieves profiles matching the given filters.
	List(ctx context.Context, filters GuardProfileFilters) ([]*GuardProfileRecord, error)
}

// GuardProfileRecord represents a guard profile as stored in persistence.
type GuardProfileRecord struct {
	UserID     string
	CNIC       string
	Age        int
	Experience int
	GuardType  string // 'police', 'commando', 'security_guard'
	IsApproved bool
	CreatedAt  string
	UpdatedAt  string
}

// GuardProfileFilters contains filter options for querying guard profiles.
type GuardProfileFilters struct {
	ApprovedOnly bool
	GuardType    string
}

// EventRepository defines the secondary port for event persistence.
type EventRepository interface {
	// Create persists a new event.
	Create(ctx context.Context, event *EventRecord) error

	// GetByID retrieves an event by its ID.
	GetByID(ctx context.Context, id string) (*EventRecord, error)

	// List retrieves events matching the given filters.
	List(ctx context.Context, filters EventFilters) ([]*EventRecord, error)

	// UpdateStatus moves an event from one status to another.
	// Returns ErrConflict when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id, from, to string) error

	// GetNextID returns the next available event ID.
	GetNextID(ctx context.Context) (string, error)
}

// EventRecord represents an event as stored in persistence.
type EventRecord struct {
	ID            string
	Name          string
	EventType     string
	ScheduledAt   time.Time
	Location      string
	CrowdSize     int
	PoliceCount   int
	CommandoCount int
	GuardCount    int
	Status        string
	RegistrarID   string
	CreatedAt     string
	UpdatedAt     string
}

// EventFilters contains filter options for querying events.
type EventFilters struct {
	Status      string
	RegistrarID string
	Limit       int
}

// AssignmentRepository defines the secondary port for duty assignment persistence.
type AssignmentRepository interface {
	// Create persists a new assignment together with its guard links.
	// Returns ErrIDTaken if the ID is in use and ErrConflict if a guard is already linked to the same event.
	Create(ctx context.Context, assignment *AssignmentRecord) error

	// GetByID retrieves an assignment by its ID.
	GetByID(ctx context.Context, id string) (*AssignmentRecord, error)

	// GetForGuard retrieves an assignment only if guardID is one of its guards.
	GetForGuard(ctx context.Context, id, guardID string) (*AssignmentRecord, error)

	// FindByEventAndGuard returns the assignment linking guardID to eventID, or nil.
	FindByEventAndGuard(ctx context.Context, eventID, guardID string) (*AssignmentRecord, error)

	// List retrieves assignments matching the given filters.
	List(ctx context.Context, filters AssignmentFilters) ([]*AssignmentRecord, error)

	// SetGuards replaces the guard set of an assignment.
	// Returns ErrConflict if a guard is already linked to the event elsewhere.
	SetGuards(ctx context.Context, id string, guardIDs []string) error

	// UpdateOutcome records a guard action on an active assignment.
	// Returns ErrConflict when the assignment is no longer active.
	UpdateOutcome(ctx context.Context, id, outcome, reason string, refreshAssignedAt bool) error

	// GetNextID returns the next available assignment ID.
	GetNextID(ctx context.Context) (string, error)
}

// AssignmentRecord represents a duty assignment as stored in persistence.
type AssignmentRecord struct {
	ID            string
	EventID       string
	GuardIDs      []string
	Outcome       string // 'active', 'rejected', 'completed'
	OutcomeReason string // Empty string means null
	AssignedAt    string
	UpdatedAt     string
}

// AssignmentFilters contains filter options for querying assignments.
type AssignmentFilters struct {
	EventID string
	GuardID string
	Outcome string
	Limit   int
}

// IdentityProvider defines the secondary port for resolving the current caller.
// This abstracts where the caller comes from (CLI session or HTTP token).
type IdentityProvider interface {
	// CurrentIdentity returns the authenticated caller, or nil if there is none.
	CurrentIdentity(ctx context.Context) (*Identity, error)
}

// Identity represents the caller as provided by the secondary port.
type Identity struct {
	UserID   string
	Username string
	Role     string
	Email    string
	Phone    string
}
