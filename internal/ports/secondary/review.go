package secondary

import "context"

// ReviewRepository defines the secondary port for event reviews.
type ReviewRepository interface {
	// Create persists a new review. Returns ErrIDTaken if the ID is in use.
	Create(ctx context.Context, review *ReviewRecord) error

	// GetByID retrieves a review by its ID.
	GetByID(ctx context.Context, id string) (*ReviewRecord, error)

	// List retrieves reviews matching the given filters, newest first.
	List(ctx context.Context, filters ReviewFilters) ([]*ReviewRecord, error)

	// GetNextID returns the next available review ID.
	GetNextID(ctx context.Context) (string, error)
}

// ReviewRecord represents an event review as stored in persistence.
// EventName and RegistrarName are read-only and filled by lookups.
type ReviewRecord struct {
	ID            string
	EventID       string
	EventName     string
	RegistrarID   string
	RegistrarName string
	Message       string
	Rating        int
	CreatedAt     string
}

// ReviewFilters contains filter options for querying reviews.
type ReviewFilters struct {
	EventID     string
	RegistrarID string
	Limit       int
}

// DashboardRepository defines the secondary port for the admin overview counts.
type DashboardRepository interface {
	// Counts returns event and guard totals in one read.
	Counts(ctx context.Context) (*DashboardCounts, error)
}

// DashboardCounts holds the admin overview totals.
type DashboardCounts struct {
	TotalEvents    int
	PendingEvents  int
	TotalGuards    int
	ApprovedGuards int
}
