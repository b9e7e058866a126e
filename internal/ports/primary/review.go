package primary

import "context"

// ReviewService defines the primary port for registrar reviews of past events.
type ReviewService interface {
	// AddReview records the calling registrar's review of one of their events.
	// The event must have taken place.
	AddReview(ctx context.Context, req AddReviewRequest) (*Review, error)

	// ListReviews lists reviews, newest first.
	ListReviews(ctx context.Context, filters ReviewFilters) ([]*Review, error)
}

// DashboardService defines the primary port for the admin overview.
type DashboardService interface {
	// GetDashboard returns event and guard totals (admin only).
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

// AddReviewRequest contains parameters for reviewing an event.
// A zero Rating stores the default of 5.
type AddReviewRequest struct {
	EventID string `validate:"required"`
	Message string `validate:"required,max=2000"`
	Rating  int    `validate:"omitempty,min=1,max=5"`
}

// ReviewFilters contains filter options for listing reviews.
type ReviewFilters struct {
	EventID string
	Limit   int
}

// Review represents an event review at the port boundary.
type Review struct {
	ID            string
	EventID       string
	EventName     string
	RegistrarID   string
	RegistrarName string
	Message       string
	Rating        int
	CreatedAt     string
}

// Dashboard holds the admin overview totals.
type Dashboard struct {
	TotalEvents    int
	PendingEvents  int
	TotalGuards    int
	ApprovedGuards int
	PendingGuards  int
}
