package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/core/duty"
	"github.com/example/desas/internal/core/effects"
	coreevent "github.com/example/desas/internal/core/event"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// maxIDAttempts bounds retries when a generated assignment ID is taken concurrently.
const maxIDAttempts = 3

// DutyServiceImpl implements the DutyService interface.
type DutyServiceImpl struct {
	eventRepo      secondary.EventRepository
	assignmentRepo secondary.AssignmentRepository
	userRepo       secondary.UserRepository
	profileRepo    secondary.GuardProfileRepository
	identity       secondary.IdentityProvider
	executor       EffectExecutor
	adminEmail     string
}

// NewDutyService creates a new DutyService with injected dependencies.
// adminEmail receives guard rejections and completions.
func NewDutyService(
	eventRepo secondary.EventRepository,
	assignmentRepo secondary.AssignmentRepository,
	userRepo secondary.UserRepository,
	profileRepo secondary.GuardProfileRepository,
	identity secondary.IdentityProvider,
	executor EffectExecutor,
	adminEmail string,
) *DutyServiceImpl {
	return &DutyServiceImpl{
		eventRepo:      eventRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		identity:       identity,
		executor:       executor,
		adminEmail:     adminEmail,
	}
}

// AssignDuty links guards to an event, one assignment per guard.
// Guards already linked to the event are left alone and not notified again.
func (s *DutyServiceImpl) AssignDuty(ctx context.Context, req primary.AssignDutyRequest) (*primary.AssignDutyResponse, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanAssignDuty); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, notFound(err, "event %s", req.EventID)
	}
	current := coreevent.Status(event.Status)
	guard := coreevent.CanTransition(coreevent.TransitionContext{
		EventID: event.ID,
		Current: current,
		Action:  coreevent.ActionAssign,
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}

	guardIDs := duty.Dedupe(req.GuardIDs)
	guards, err := s.loadDeployableGuards(ctx, guardIDs)
	if err != nil {
		return nil, err
	}

	resp := &primary.AssignDutyResponse{Deliveries: make(map[string]primary.DeliveryOutcome)}
	var notify []*secondary.UserRecord
	for _, g := range guards {
		existing, err := s.assignmentRepo.FindByEventAndGuard(ctx, event.ID, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up assignment for guard %s: %w", g.ID, err)
		}
		if existing != nil {
			resp.AlreadyAssigned = append(resp.AlreadyAssigned, g.ID)
			continue
		}

		created, err := s.createAssignment(ctx, event.ID, g.ID)
		if errors.Is(err, secondary.ErrConflict) {
			// Another request may have linked this guard first; only report it if the link exists.
			linked, lookupErr := s.assignmentRepo.FindByEventAndGuard(ctx, event.ID, g.ID)
			if lookupErr != nil {
				return nil, fmt.Errorf("failed to look up assignment for guard %s: %w", g.ID, lookupErr)
			}
			if linked == nil {
				return nil, fmt.Errorf("failed to link guard %s to event %s: %w", g.ID, event.ID, err)
			}
			resp.AlreadyAssigned = append(resp.AlreadyAssigned, g.ID)
			continue
		}
		if err != nil {
			return nil, err
		}
		resp.Created = append(resp.Created, recordToAssignment(created, event.Name))
		notify = append(notify, g)
	}

	next, _ := coreevent.Next(current, coreevent.ActionAssign)
	if next != current {
		err := s.eventRepo.UpdateStatus(ctx, event.ID, string(current), string(next))
		if err != nil && !errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("failed to update event status: %w", err)
		}
		// A conflict here means a concurrent assignment already moved the event.
		event.Status = string(next)
	}
	resp.Event = recordToEvent(event)

	for _, g := range notify {
		delivery, err := s.notifyAssigned(ctx, event, g)
		if err != nil {
			return nil, err
		}
		resp.Deliveries[g.ID] = delivery
	}
	return resp, nil
}

// UpdateAssignmentGuards replaces the guard set of an active assignment.
func (s *DutyServiceImpl) UpdateAssignmentGuards(ctx context.Context, req primary.UpdateAssignmentGuardsRequest) (*primary.UpdateAssignmentGuardsResponse, error) {
	if _, _, err := authorize(ctx, s.identity, access.CanAssignDuty); err != nil {
		return nil, err
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(ctx, req.AssignmentID)
	if err != nil {
		return nil, notFound(err, "assignment %s", req.AssignmentID)
	}
	guard := duty.CanUpdateGuards(duty.ActionContext{
		AssignmentID: assignment.ID,
		Outcome:      duty.ParseOutcome(assignment.Outcome, assignment.OutcomeReason),
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, assignment.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", assignment.EventID, err)
	}
	eventGuard := coreevent.CanTransition(coreevent.TransitionContext{
		EventID: event.ID,
		Current: coreevent.Status(event.Status),
		Action:  coreevent.ActionAssign,
	})
	if err := invalid(eventGuard.Error()); err != nil {
		return nil, err
	}

	guardIDs := duty.Dedupe(req.GuardIDs)
	added, removed := duty.DiffGuards(assignment.GuardIDs, guardIDs)

	addedGuards, err := s.loadDeployableGuards(ctx, added)
	if err != nil {
		return nil, err
	}
	for _, g := range addedGuards {
		other, err := s.assignmentRepo.FindByEventAndGuard(ctx, event.ID, g.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up assignment for guard %s: %w", g.ID, err)
		}
		if other != nil && other.ID != assignment.ID {
			return nil, fmt.Errorf("%w: guard %s is already assigned to event %s via %s",
				primary.ErrValidation, g.ID, event.ID, other.ID)
		}
	}

	if err := s.assignmentRepo.SetGuards(ctx, assignment.ID, guardIDs); err != nil {
		if errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("%w: a guard was assigned to event %s by another request", primary.ErrValidation, event.ID)
		}
		return nil, fmt.Errorf("failed to update guards: %w", err)
	}

	updated, err := s.assignmentRepo.GetByID(ctx, assignment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated assignment: %w", err)
	}

	resp := &primary.UpdateAssignmentGuardsResponse{
		Assignment: recordToAssignment(updated, event.Name),
		Added:      added,
		Removed:    removed,
		Deliveries: make(map[string]primary.DeliveryOutcome),
	}
	for _, g := range addedGuards {
		delivery, err := s.notifyAssigned(ctx, event, g)
		if err != nil {
			return nil, err
		}
		resp.Deliveries[g.ID] = delivery
	}
	return resp, nil
}

// RejectAssignment records the calling guard's rejection. The event status is unchanged.
func (s *DutyServiceImpl) RejectAssignment(ctx context.Context, assignmentID, reason string) (*primary.GuardActionResponse, error) {
	outcome := duty.Rejected(reason)
	return s.guardAction(ctx, assignmentID, outcome, duty.CanReject, func(in duty.GuardActionInput) duty.GuardActionPlan {
		in.Reason = outcome.Reason
		return duty.GenerateRejectionPlan(in)
	})
}

// CompleteAssignment records the calling guard's completion. The event status is unchanged.
func (s *DutyServiceImpl) CompleteAssignment(ctx context.Context, assignmentID string) (*primary.GuardActionResponse, error) {
	return s.guardAction(ctx, assignmentID, duty.Completed(), duty.CanComplete, duty.GenerateCompletionPlan)
}

func (s *DutyServiceImpl) guardAction(
	ctx context.Context,
	assignmentID string,
	outcome duty.Outcome,
	check func(duty.ActionContext) duty.GuardResult,
	planner func(duty.GuardActionInput) duty.GuardActionPlan,
) (*primary.GuardActionResponse, error) {
	who, id, err := authorize(ctx, s.identity, func(id *access.Identity) access.Decision {
		return access.RequireRole(id, access.RoleSecurityGuard)
	})
	if err != nil {
		return nil, err
	}

	// Scoped lookup: assignments the caller is not part of do not exist for them.
	assignment, err := s.assignmentRepo.GetForGuard(ctx, assignmentID, who.UserID)
	if err != nil {
		return nil, notFound(err, "assignment %s", assignmentID)
	}
	if err := denied(access.CanActOnAssignment(id, access.AssignmentActionContext{
		AssignmentID: assignment.ID,
		IsMember:     duty.HasGuard(assignment.GuardIDs, who.UserID),
	})); err != nil {
		return nil, err
	}

	guard := check(duty.ActionContext{
		AssignmentID: assignment.ID,
		Outcome:      duty.ParseOutcome(assignment.Outcome, assignment.OutcomeReason),
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, assignment.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", assignment.EventID, err)
	}

	refresh := outcome.Kind == duty.OutcomeCompleted
	if err := s.assignmentRepo.UpdateOutcome(ctx, assignment.ID, string(outcome.Kind), outcome.Reason, refresh); err != nil {
		if errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("%w: assignment %s was changed by another request", primary.ErrValidation, assignment.ID)
		}
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	plan := planner(duty.GuardActionInput{
		GuardName:  who.Username,
		EventName:  event.Name,
		AdminEmail: s.adminEmail,
	})
	report, err := s.executor.Execute(ctx, plan.Effects())
	if err != nil {
		return nil, fmt.Errorf("failed to notify admin: %w", err)
	}

	updated, err := s.assignmentRepo.GetByID(ctx, assignment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch updated assignment: %w", err)
	}

	resp := &primary.GuardActionResponse{
		Assignment:    recordToAssignment(updated, event.Name),
		AdminDelivery: report.Delivery(0),
	}
	if outcome.Kind == duty.OutcomeCompleted {
		all, err := s.allCompleted(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		resp.AllAssignmentsCompleted = all
	}
	return resp, nil
}

// GetAssignment retrieves an assignment visible to the caller.
// Guards see their own, registrars those of their events, admins everything.
func (s *DutyServiceImpl) GetAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	who, id, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}

	var record *secondary.AssignmentRecord
	if id.Role == access.RoleSecurityGuard {
		record, err = s.assignmentRepo.GetForGuard(ctx, assignmentID, who.UserID)
	} else {
		record, err = s.assignmentRepo.GetByID(ctx, assignmentID)
	}
	if err != nil {
		return nil, notFound(err, "assignment %s", assignmentID)
	}

	event, err := s.eventRepo.GetByID(ctx, record.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", record.EventID, err)
	}
	if id.Role == access.RoleEventRegistrar && event.RegistrarID != who.UserID {
		return nil, fmt.Errorf("%w: assignment %s", primary.ErrNotFound, assignmentID)
	}
	return recordToAssignment(record, event.Name), nil
}

// ListAssignments lists assignments visible to the caller.
// Registrars must name one of their events.
func (s *DutyServiceImpl) ListAssignments(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	who, id, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}

	repoFilters := secondary.AssignmentFilters{
		EventID: filters.EventID,
		Outcome: filters.Outcome,
		Limit:   filters.Limit,
	}
	switch id.Role {
	case access.RoleSecurityGuard:
		repoFilters.GuardID = who.UserID
	case access.RoleEventRegistrar:
		if filters.EventID == "" {
			return nil, fmt.Errorf("%w: registrars must filter assignments by event", primary.ErrValidation)
		}
		event, err := s.eventRepo.GetByID(ctx, filters.EventID)
		if err != nil {
			return nil, notFound(err, "event %s", filters.EventID)
		}
		if err := denied(access.CanViewEvent(id, access.EventViewContext{
			EventID:     event.ID,
			RegistrarID: event.RegistrarID,
		})); err != nil {
			return nil, err
		}
	}

	records, err := s.assignmentRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	names := make(map[string]string)
	assignments := make([]*primary.Assignment, len(records))
	for i, r := range records {
		name, ok := names[r.EventID]
		if !ok {
			if event, err := s.eventRepo.GetByID(ctx, r.EventID); err == nil {
				name = event.Name
			}
			names[r.EventID] = name
		}
		assignments[i] = recordToAssignment(r, name)
	}
	return assignments, nil
}

// Helper methods

// loadDeployableGuards fetches every guard and checks the approval gate before anything is written.
func (s *DutyServiceImpl) loadDeployableGuards(ctx context.Context, guardIDs []string) ([]*secondary.UserRecord, error) {
	guards := make([]*secondary.UserRecord, 0, len(guardIDs))
	for _, guardID := range guardIDs {
		user, err := s.userRepo.GetByID(ctx, guardID)
		if err != nil {
			if errors.Is(err, secondary.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s not found", primary.ErrValidation, guardID)
			}
			return nil, fmt.Errorf("failed to load guard %s: %w", guardID, err)
		}

		candidate := duty.GuardCandidate{
			UserID:  user.ID,
			IsGuard: user.Role == string(access.RoleSecurityGuard),
		}
		profile, err := s.profileRepo.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			candidate.HasProfile = true
			candidate.IsApproved = profile.IsApproved
		case !errors.Is(err, secondary.ErrNotFound):
			return nil, fmt.Errorf("failed to load guard profile %s: %w", user.ID, err)
		}

		if err := invalid(duty.CanAssignGuard(candidate).Error()); err != nil {
			return nil, err
		}
		guards = append(guards, user)
	}
	return guards, nil
}

func (s *DutyServiceImpl) createAssignment(ctx context.Context, eventID, guardID string) (*secondary.AssignmentRecord, error) {
	var record *secondary.AssignmentRecord
	for attempt := 1; ; attempt++ {
		nextID, err := s.assignmentRepo.GetNextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to generate assignment ID: %w", err)
		}

		record = &secondary.AssignmentRecord{
			ID:       nextID,
			EventID:  eventID,
			GuardIDs: []string{guardID},
			Outcome:  string(duty.OutcomeActive),
		}
		err = s.assignmentRepo.Create(ctx, record)
		if err == nil {
			break
		}
		if errors.Is(err, secondary.ErrIDTaken) && attempt < maxIDAttempts {
			// A concurrent request took the ID.
			continue
		}
		if errors.Is(err, secondary.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	created, err := s.assignmentRepo.GetByID(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created assignment: %w", err)
	}
	return created, nil
}

func (s *DutyServiceImpl) notifyAssigned(ctx context.Context, event *secondary.EventRecord, guard *secondary.UserRecord) (primary.DeliveryOutcome, error) {
	notice := duty.GenerateAssignmentNotice(duty.AssignmentNoticeInput{
		EventName:   event.Name,
		ScheduledAt: event.ScheduledAt,
		Location:    event.Location,
		GuardEmail:  guard.Email,
		GuardPhone:  guard.Phone,
	})
	report, err := s.executor.Execute(ctx, []effects.Effect{notice})
	if err != nil {
		return primary.DeliveryOutcome{}, fmt.Errorf("failed to notify guard %s: %w", guard.ID, err)
	}
	return report.Delivery(0), nil
}

func (s *DutyServiceImpl) allCompleted(ctx context.Context, eventID string) (bool, error) {
	records, err := s.assignmentRepo.List(ctx, secondary.AssignmentFilters{EventID: eventID})
	if err != nil {
		return false, fmt.Errorf("failed to list assignments: %w", err)
	}
	if len(records) == 0 {
		return false, nil
	}
	for _, r := range records {
		if r.Outcome != string(duty.OutcomeCompleted) {
			return false, nil
		}
	}
	return true, nil
}

func recordToAssignment(r *secondary.AssignmentRecord, eventName string) *primary.Assignment {
	outcome := duty.ParseOutcome(r.Outcome, r.OutcomeReason)
	return &primary.Assignment{
		ID:         r.ID,
		EventID:    r.EventID,
		EventName:  eventName,
		GuardIDs:   r.GuardIDs,
		Outcome:    string(outcome.Kind),
		Reason:     outcome.Reason,
		Details:    outcome.Details(),
		AssignedAt: r.AssignedAt,
	}
}

// Ensure DutyServiceImpl implements the interface.
var _ primary.DutyService = (*DutyServiceImpl)(nil)
