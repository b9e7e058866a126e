package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/desas/internal/ports/secondary"
)

// DashboardRepository implements secondary.DashboardRepository with SQLite.
type DashboardRepository struct {
	db *sql.DB
}

// NewDashboardRepository creates a new SQLite dashboard repository.
func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns event and guard totals. Guards without a profile count as not approved.
func (r *DashboardRepository) Counts(ctx context.Context) (*secondary.DashboardCounts, error) {
	counts := &secondary.DashboardCounts{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM events WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users WHERE role = 'security_guard'),
			(SELECT COUNT(*) FROM users u JOIN guard_profiles p ON p.user_id = u.id
				WHERE u.role = 'security_guard' AND p.is_approved = 1)
	`).Scan(&counts.TotalEvents, &counts.PendingEvents, &counts.TotalGuards, &counts.ApprovedGuards)
	if err != nil {
		return nil, fmt.Errorf("failed to count dashboard totals: %w", err)
	}
	return counts, nil
}

// Ensure DashboardRepository implements the interface.
var _ secondary.DashboardRepository = (*DashboardRepository)(nil)
