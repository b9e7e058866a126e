package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/desas/internal/core/access"
	coreevent "github.com/example/desas/internal/core/event"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// EventServiceImpl implements the EventService interface.
type EventServiceImpl struct {
	eventRepo   secondary.EventRepository
	userRepo    secondary.UserRepository
	identity    secondary.IdentityProvider
	executor    EffectExecutor
	smsOnReject bool
}

// NewEventService creates a new EventService with injected dependencies.
// smsOnReject extends rejection notices to SMS; they are email-only otherwise.
func NewEventService(
	eventRepo secondary.EventRepository,
	userRepo secondary.UserRepository,
	identity secondary.IdentityProvider,
	executor EffectExecutor,
	smsOnReject bool,
) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		identity:    identity,
		executor:    executor,
		smsOnReject: smsOnReject,
	}
}

// RegisterEvent creates a pending event owned by the caller.
func (s *EventServiceImpl) RegisterEvent(ctx context.Context, req primary.RegisterEventRequest) (*primary.Event, error) {
	who, _, err := authorize(ctx, s.identity, access.CanRegisterEvent)
	if err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if req.ScheduledAt.IsZero() {
		return nil, fmt.Errorf("%w: scheduled time is required", primary.ErrValidation)
	}
	if !coreevent.ValidType(coreevent.Type(req.EventType)) {
		return nil, fmt.Errorf("%w: unknown event type %q", primary.ErrValidation, req.EventType)
	}
	guard := coreevent.CanRegisterEvent(coreevent.RegisterContext{
		Name:          req.Name,
		CrowdSize:     req.CrowdSize,
		PoliceCount:   req.PoliceCount,
		CommandoCount: req.CommandoCount,
		GuardCount:    req.GuardCount,
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}

	nextID, err := s.eventRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate event ID: %w", err)
	}

	record := &secondary.EventRecord{
		ID:            nextID,
		Name:          req.Name,
		EventType:     req.EventType,
		ScheduledAt:   req.ScheduledAt,
		Location:      req.Location,
		CrowdSize:     req.CrowdSize,
		PoliceCount:   req.PoliceCount,
		CommandoCount: req.CommandoCount,
		GuardCount:    req.GuardCount,
		Status:        string(coreevent.InitialStatus()),
		RegistrarID:   who.UserID,
	}
	if err := s.eventRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created, err := s.eventRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created event: %w", err)
	}
	return recordToEvent(created), nil
}

// GetEvent retrieves an event visible to the caller.
func (s *EventServiceImpl) GetEvent(ctx context.Context, eventID string) (*primary.Event, error) {
	_, id, err := authorize(ctx, s.identity, access.RequireAuthenticated)
	if err != nil {
		return nil, err
	}

	record, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event %s", eventID)
	}
	if err := denied(access.CanViewEvent(id, access.EventViewContext{
		EventID:     record.ID,
		RegistrarID: record.RegistrarID,
	})); err != nil {
		return nil, err
	}
	return recordToEvent(record), nil
}

// ListEvents lists events visible to the caller. Registrars only see their own.
func (s *EventServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	_, id, err := authorize(ctx, s.identity, access.CanRegisterEvent)
	if err != nil {
		return nil, err
	}

	repoFilters := secondary.EventFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	}
	if !id.IsAdmin() {
		repoFilters.RegistrarID = id.UserID
	}

	records, err := s.eventRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*primary.Event, len(records))
	for i, r := range records {
		events[i] = recordToEvent(r)
	}
	return events, nil
}

// ApproveEvent moves a pending event to approved and notifies its registrar.
func (s *EventServiceImpl) ApproveEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return s.transition(ctx, eventID, coreevent.ActionApprove, access.CanApproveEvent)
}

// RejectEvent moves a pending event to rejected and notifies its registrar.
func (s *EventServiceImpl) RejectEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return s.transition(ctx, eventID, coreevent.ActionReject, access.CanRejectEvent)
}

// CompleteEvent closes an assigned event. Nobody is notified.
func (s *EventServiceImpl) CompleteEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return s.transition(ctx, eventID, coreevent.ActionComplete, access.CanCompleteEvent)
}

func (s *EventServiceImpl) transition(
	ctx context.Context,
	eventID string,
	action coreevent.Action,
	check func(*access.Identity) access.Decision,
) (*primary.TransitionResponse, error) {
	if _, _, err := authorize(ctx, s.identity, check); err != nil {
		return nil, err
	}

	record, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, notFound(err, "event %s", eventID)
	}

	current := coreevent.Status(record.Status)
	guard := coreevent.CanTransition(coreevent.TransitionContext{
		EventID: record.ID,
		Current: current,
		Action:  action,
	})
	if err := invalid(guard.Error()); err != nil {
		return nil, err
	}
	next, _ := coreevent.Next(current, action)

	// Load the registrar before writing so a broken reference aborts cleanly.
	var registrar *secondary.UserRecord
	if action == coreevent.ActionApprove || action == coreevent.ActionReject {
		registrar, err = s.userRepo.GetByID(ctx, record.RegistrarID)
		if err != nil {
			return nil, fmt.Errorf("failed to load registrar %s: %w", record.RegistrarID, err)
		}
	}

	if err := s.eventRepo.UpdateStatus(ctx, record.ID, string(current), string(next)); err != nil {
		if errors.Is(err, secondary.ErrConflict) {
			return nil, fmt.Errorf("%w: event %s was changed by another request", primary.ErrValidation, record.ID)
		}
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	record.Status = string(next)

	resp := &primary.TransitionResponse{Event: recordToEvent(record)}
	if registrar == nil {
		return resp, nil
	}

	input := coreevent.NoticeInput{
		EventID:        record.ID,
		EventName:      record.Name,
		ScheduledAt:    record.ScheduledAt,
		RegistrarEmail: registrar.Email,
		RegistrarPhone: registrar.Phone,
	}
	var plan coreevent.NoticePlan
	if action == coreevent.ActionApprove {
		plan = coreevent.GenerateApprovalNotice(input)
	} else {
		plan = coreevent.GenerateRejectionNotice(input, s.smsOnReject)
	}

	report, err := s.executor.Execute(ctx, plan.Effects())
	if err != nil {
		return nil, fmt.Errorf("failed to notify registrar: %w", err)
	}
	delivery := report.Delivery(0)
	resp.Delivery = &delivery
	return resp, nil
}

// Helper methods

func recordToEvent(r *secondary.EventRecord) *primary.Event {
	return &primary.Event{
		ID:             r.ID,
		Name:           r.Name,
		EventType:      r.EventType,
		ScheduledAt:    r.ScheduledAt,
		Location:       r.Location,
		CrowdSize:      r.CrowdSize,
		PoliceCount:    r.PoliceCount,
		CommandoCount:  r.CommandoCount,
		GuardCount:     r.GuardCount,
		TotalRequested: r.PoliceCount + r.CommandoCount + r.GuardCount,
		Status:         r.Status,
		RegistrarID:    r.RegistrarID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Ensure EventServiceImpl implements the interface.
var _ primary.EventService = (*EventServiceImpl)(nil)
