package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/core/duty"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// GuardServiceImpl implements the GuardService interface.
type GuardServiceImpl struct {
	userRepo       secondary.UserRepository
	profileRepo    secondary.GuardProfileRepository
	assignmentRepo secondary.AssignmentRepository
	identity       secondary.IdentityProvider
}

// NewGuardService creates a new GuardService with injected dependencies.
func NewGuardService(
	userRepo secondary.UserRepository,
	profileRepo secondary.GuardProfileRepository,
	assignmentRepo secondary.AssignmentRepository,
	identity secondary.IdentityProvider,
) *GuardServiceImpl {
	return &GuardServiceImpl{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		assignmentRepo: assignmentRepo,
		identity:       identity,
	}
}

// SaveGuardProfile creates or replaces a guard profile. The profile goes
// back to unapproved every time it is saved.
func (s *GuardServiceImpl) SaveGuardProfile(ctx context.Context, req primary.SaveGuardProfileRequest) (*primary.Guard, error) {
	who, id, err := authorize(ctx, s.identity, func(id *access.Identity) access.Decision {
		return access.RequireRole(id, access.RoleSecurityGuard)
	})
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && who.UserID != req.UserID {
		return nil, denied(access.CanManageGuards(id))
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, notFound(err, "user %s", req.UserID)
	}
	if user.Role != string(access.RoleSecurityGuard) {
		return nil, fmt.Errorf("%w: user %s is not a security guard", primary.ErrValidation, user.ID)
	}

	record := &secondary.GuardProfileRecord{
		UserID:     user.ID,
		CNIC:       req.CNIC,
		Age:        req.Age,
		Experience: req.Experience,
		GuardType:  req.GuardType,
		IsApproved: false,
	}
	if err := s.profileRepo.Upsert(ctx, record); err != nil {
		if errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("%w: CNIC %s is already registered", primary.ErrValidation, req.CNIC)
		}
		return nil, fmt.Errorf("failed to save guard profile: %w", err)
	}

	saved, err := s.profileRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guard profile: %w", err)
	}
	return toGuard(user, saved), nil
}

// ApproveGuard marks a guard's profile as approved so the guard can be deployed.
func (s *GuardServiceImpl) ApproveGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanManageGuards); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user %s", userID)
	}
	if user.Role != string(access.RoleSecurityGuard) {
		return nil, fmt.Errorf("%w: user %s is not a security guard", primary.ErrValidation, user.ID)
	}

	if _, err := s.profileRepo.GetByUserID(ctx, userID); err != nil {
		if errors.Is(err, secondary.ErrNotFound) {
			return nil, fmt.Errorf("%w: guard %s has no profile", primary.ErrValidation, userID)
		}
		return nil, fmt.Errorf("failed to load guard profile: %w", err)
	}
	if err := s.profileRepo.SetApproved(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("failed to approve guard: %w", err)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guard profile: %w", err)
	}
	return toGuard(user, profile), nil
}

// ListGuards lists guard users together with their profiles.
func (s *GuardServiceImpl) ListGuards(ctx context.Context, filters primary.GuardFilters) ([]*primary.Guard, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanManageGuards); err != nil {
		return nil, err
	}

	users, err := s.userRepo.List(ctx, secondary.UserFilters{Role: string(access.RoleSecurityGuard)})
	if err != nil {
		return nil, fmt.Errorf("failed to list guards: %w", err)
	}
	profiles, err := s.profileRepo.List(ctx, secondary.GuardProfileFilters{
		ApprovedOnly: filters.ApprovedOnly,
		GuardType:    filters.GuardType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list guard profiles: %w", err)
	}

	byUser := make(map[string]*secondary.GuardProfileRecord, len(profiles))
	for _, p := range profiles {
		byUser[p.UserID] = p
	}
	profileFiltered := filters.ApprovedOnly || filters.GuardType != ""

	guards := make([]*primary.Guard, 0, len(users))
	for _, u := range users {
		profile := byUser[u.ID]
		if profile == nil && profileFiltered {
			continue
		}
		guards = append(guards, toGuard(u, profile))
	}
	return guards, nil
}

// RejectGuard removes a guard together with their profile. The returned guard
// is the state before removal.
func (s *GuardServiceImpl) RejectGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanManageGuards); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "guard %s", userID)
	}
	if user.Role != string(access.RoleSecurityGuard) {
		return nil, fmt.Errorf("%w: guard %s", primary.ErrNotFound, userID)
	}

	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to load guard profile: %w", err)
	}

	active, err := s.assignmentRepo.List(ctx, secondary.AssignmentFilters{
		GuardID: userID,
		Outcome: string(duty.OutcomeActive),
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to check assignments: %w", err)
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("%w: guard %s is on active assignment %s", primary.ErrValidation, userID, active[0].ID)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("%w: guard %s is still referenced", primary.ErrValidation, userID)
		}
		return nil, notFound(err, "guard %s", userID)
	}
	return toGuard(user, profile), nil
}

func toGuard(user *secondary.UserRecord, profile *secondary.GuardProfileRecord) *primary.Guard {
	g := &primary.Guard{User: recordToUser(user)}
	if profile != nil {
		g.HasProfile = true
		g.CNIC = profile.CNIC
		g.Age = profile.Age
		g.Experience = profile.Experience
		g.GuardType = profile.GuardType
		g.IsApproved = profile.IsApproved
	}
	return g
}

// Ensure GuardServiceImpl implements the interface.
var _ primary.GuardService = (*GuardServiceImpl)(nil)
