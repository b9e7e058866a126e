package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/desas/internal/ports/primary"
)

// ReviewAdapter translates CLI operations to the ReviewService.
type ReviewAdapter struct {
	service primary.ReviewService
	out     io.Writer
}

// NewReviewAdapter creates a new ReviewAdapter.
func NewReviewAdapter(service primary.ReviewService, out io.Writer) *ReviewAdapter {
	return &ReviewAdapter{
		service: service,
		out:     out,
	}
}

// Add records a review of a past event.
func (a *ReviewAdapter) Add(ctx context.Context, req primary.AddReviewRequest) error {
	review, err := a.service.AddReview(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Review %s saved for %s (%s) %s\n", review.ID, review.EventID, review.EventName, stars(review.Rating))
	return nil
}

// List prints reviews, newest first.
func (a *ReviewAdapter) List(ctx context.Context, eventID string, limit int) error {
	reviews, err := a.service.ListReviews(ctx, primary.ReviewFilters{EventID: eventID, Limit: limit})
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}

	if len(reviews) == 0 {
		fmt.Fprintln(a.out, "No reviews found")
		return nil
	}

	for _, r := range reviews {
		fmt.Fprintf(a.out, "\n%s  %s (%s) by %s on %s\n", stars(r.Rating), r.EventName, r.EventID, r.RegistrarName, r.CreatedAt)
		fmt.Fprintf(a.out, "  %s\n", r.Message)
	}
	fmt.Fprintln(a.out)
	return nil
}

// stars renders a 1-5 rating.
func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return color.New(color.FgYellow).Sprint(strings.Repeat("★", rating)) + strings.Repeat("☆", 5-rating)
}

// DashboardAdapter translates CLI operations to the DashboardService.
type DashboardAdapter struct {
	service primary.DashboardService
	out     io.Writer
}

// NewDashboardAdapter creates a new DashboardAdapter.
func NewDashboardAdapter(service primary.DashboardService, out io.Writer) *DashboardAdapter {
	return &DashboardAdapter{
		service: service,
		out:     out,
	}
}

// Show prints the admin overview.
func (a *DashboardAdapter) Show(ctx context.Context) error {
	d, err := a.service.GetDashboard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\nDashboard")
	fmt.Fprintln(a.out, rule)
	fmt.Fprintf(a.out, "%-18s %d\n", "Events", d.TotalEvents)
	fmt.Fprintf(a.out, "  %s %d\n", padStatus("pending", 16), d.PendingEvents)
	fmt.Fprintf(a.out, "%-18s %d\n", "Guards", d.TotalGuards)
	fmt.Fprintf(a.out, "  %s %d\n", padStatus("approved", 16), d.ApprovedGuards)
	fmt.Fprintf(a.out, "  %s %d\n", padStatus("pending", 16), d.PendingGuards)
	fmt.Fprintln(a.out)
	return nil
}
