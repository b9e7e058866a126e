package cli

import (
	"context"
	"time"

	"github.com/fatih/color"

	"github.com/example/desas/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockEventService implements primary.EventService for testing
type mockEventService struct {
	registerFn   func(ctx context.Context, req primary.RegisterEventRequest) (*primary.Event, error)
	listFn       func(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error)
	transitionFn func(ctx context.Context, eventID string) (*primary.TransitionResponse, error)

	lastFilters primary.EventFilters
}

func testEvent(id, status string) *primary.Event {
	return &primary.Event{
		ID:             id,
		Name:           "Concert A",
		EventType:      "Sports & Entertainment",
		ScheduledAt:    time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:       "Stadium",
		CrowdSize:      500,
		GuardCount:     4,
		TotalRequested: 4,
		Status:         status,
		RegistrarID:    "USR-0002",
	}
}

func (m *mockEventService) RegisterEvent(ctx context.Context, req primary.RegisterEventRequest) (*primary.Event, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, req)
	}
	e := testEvent("EVT-0001", "pending")
	e.Name = req.Name
	return e, nil
}

func (m *mockEventService) GetEvent(ctx context.Context, eventID string) (*primary.Event, error) {
	return testEvent(eventID, "approved"), nil
}

func (m *mockEventService) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return []*primary.Event{}, nil
}

func (m *mockEventService) transition(ctx context.Context, eventID, status string) (*primary.TransitionResponse, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, eventID)
	}
	return &primary.TransitionResponse{Event: testEvent(eventID, status)}, nil
}

func (m *mockEventService) ApproveEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return m.transition(ctx, eventID, "approved")
}

func (m *mockEventService) RejectEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return m.transition(ctx, eventID, "rejected")
}

func (m *mockEventService) CompleteEvent(ctx context.Context, eventID string) (*primary.TransitionResponse, error) {
	return m.transition(ctx, eventID, "completed")
}

// mockDutyService implements primary.DutyService for testing
type mockDutyService struct {
	assignFn   func(ctx context.Context, req primary.AssignDutyRequest) (*primary.AssignDutyResponse, error)
	completeFn func(ctx context.Context, id string) (*primary.GuardActionResponse, error)

	lastReason string
}

func (m *mockDutyService) AssignDuty(ctx context.Context, req primary.AssignDutyRequest) (*primary.AssignDutyResponse, error) {
	if m.assignFn != nil {
		return m.assignFn(ctx, req)
	}
	return &primary.AssignDutyResponse{Event: testEvent(req.EventID, "assigned")}, nil
}

func (m *mockDutyService) UpdateAssignmentGuards(ctx context.Context, req primary.UpdateAssignmentGuardsRequest) (*primary.UpdateAssignmentGuardsResponse, error) {
	return &primary.UpdateAssignmentGuardsResponse{
		Assignment: &primary.Assignment{ID: req.AssignmentID, GuardIDs: req.GuardIDs},
		Added:      req.GuardIDs,
	}, nil
}

func (m *mockDutyService) RejectAssignment(ctx context.Context, id, reason string) (*primary.GuardActionResponse, error) {
	m.lastReason = reason
	return &primary.GuardActionResponse{
		Assignment: &primary.Assignment{ID: id, EventID: "EVT-0003", Outcome: "rejected", Details: "Rejected: " + reason},
	}, nil
}

func (m *mockDutyService) CompleteAssignment(ctx context.Context, id string) (*primary.GuardActionResponse, error) {
	if m.completeFn != nil {
		return m.completeFn(ctx, id)
	}
	return &primary.GuardActionResponse{
		Assignment: &primary.Assignment{ID: id, EventID: "EVT-0003", Outcome: "completed", Details: "Completed successfully"},
	}, nil
}

func (m *mockDutyService) GetAssignment(ctx context.Context, id string) (*primary.Assignment, error) {
	return &primary.Assignment{ID: id, EventID: "EVT-0003", EventName: "Trade Expo", GuardIDs: []string{"USR-0003"}, Outcome: "active"}, nil
}

func (m *mockDutyService) ListAssignments(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	return []*primary.Assignment{}, nil
}

// mockUserService implements primary.UserService for testing
type mockUserService struct {
	lastCreate primary.CreateUserRequest
	users      []*primary.User
}

func (m *mockUserService) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	m.lastCreate = req
	return &primary.User{ID: "USR-0006", Username: req.Username, Role: req.Role}, nil
}

func (m *mockUserService) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	return &primary.User{ID: userID}, nil
}

func (m *mockUserService) ListUsers(ctx context.Context, filters primary.UserFilters) ([]*primary.User, error) {
	return m.users, nil
}

func (m *mockUserService) WhoAmI(ctx context.Context) (*primary.User, error) {
	return &primary.User{ID: "USR-0001", Username: "admin", Role: "admin"}, nil
}

// mockGuardService implements primary.GuardService for testing
type mockGuardService struct {
	guards    []*primary.Guard
	rejectErr error
}

func (m *mockGuardService) SaveGuardProfile(ctx context.Context, req primary.SaveGuardProfileRequest) (*primary.Guard, error) {
	return &primary.Guard{
		User:       &primary.User{ID: req.UserID},
		GuardType:  req.GuardType,
		Experience: req.Experience,
		HasProfile: true,
	}, nil
}

func (m *mockGuardService) ApproveGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	return &primary.Guard{User: &primary.User{ID: userID, Username: "guard3"}, HasProfile: true, IsApproved: true}, nil
}

func (m *mockGuardService) ListGuards(ctx context.Context, filters primary.GuardFilters) ([]*primary.Guard, error) {
	return m.guards, nil
}

func (m *mockGuardService) RejectGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	if m.rejectErr != nil {
		return nil, m.rejectErr
	}
	return &primary.Guard{User: &primary.User{ID: userID, Username: "guard3"}, HasProfile: true}, nil
}

// mockLogService implements primary.MessageLogService for testing
type mockLogService struct {
	entries     []*primary.MessageLogEntry
	lastFilters primary.MessageLogFilters
}

func (m *mockLogService) ListMessageLogs(ctx context.Context, filters primary.MessageLogFilters) ([]*primary.MessageLogEntry, error) {
	m.lastFilters = filters
	return m.entries, nil
}

// mockReviewService implements primary.ReviewService for testing
type mockReviewService struct {
	reviews     []*primary.Review
	lastAdd     primary.AddReviewRequest
	lastFilters primary.ReviewFilters
}

func (m *mockReviewService) AddReview(ctx context.Context, req primary.AddReviewRequest) (*primary.Review, error) {
	m.lastAdd = req
	rating := req.Rating
	if rating == 0 {
		rating = 5
	}
	return &primary.Review{ID: "REV-0001", EventID: req.EventID, EventName: "Concert A", Message: req.Message, Rating: rating}, nil
}

func (m *mockReviewService) ListReviews(ctx context.Context, filters primary.ReviewFilters) ([]*primary.Review, error) {
	m.lastFilters = filters
	return m.reviews, nil
}

// mockDashboardService implements primary.DashboardService for testing
type mockDashboardService struct {
	dashboard *primary.Dashboard
	err       error
}

func (m *mockDashboardService) GetDashboard(ctx context.Context) (*primary.Dashboard, error) {
	return m.dashboard, m.err
}
