package app

import (
	"context"
	"fmt"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// DashboardServiceImpl implements the DashboardService interface.
type DashboardServiceImpl struct {
	dashboardRepo secondary.DashboardRepository
	identity      secondary.IdentityProvider
}

// NewDashboardService creates a new DashboardService with injected dependencies.
func NewDashboardService(dashboardRepo secondary.DashboardRepository, identity secondary.IdentityProvider) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		dashboardRepo: dashboardRepo,
		identity:      identity,
	}
}

// GetDashboard returns event and guard totals. Guards without an approved
// profile count as pending.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*primary.Dashboard, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanViewDashboard); err != nil {
		return nil, err
	}

	counts, err := s.dashboardRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return &primary.Dashboard{
		TotalEvents:    counts.TotalEvents,
		PendingEvents:  counts.PendingEvents,
		TotalGuards:    counts.TotalGuards,
		ApprovedGuards: counts.ApprovedGuards,
		PendingGuards:  counts.TotalGuards - counts.ApprovedGuards,
	}, nil
}

// Ensure DashboardServiceImpl implements the interface.
var _ primary.DashboardService = (*DashboardServiceImpl)(nil)
