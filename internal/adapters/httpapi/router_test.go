package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/example/desas/internal/auth"
	"github.com/example/desas/internal/ctxutil"
	"github.com/example/desas/internal/ports/primary"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeServices implements every primary port and records the last call.
type fakeServices struct {
	err error

	lastCtx    context.Context
	lastID     string
	lastReason string
	lastEvent  primary.RegisterEventRequest
	lastAssign primary.AssignDutyRequest
	lastLogs   primary.MessageLogFilters
	lastReview primary.AddReviewRequest
	lastRevQ   primary.ReviewFilters
}

func (f *fakeServices) record(ctx context.Context, id string) {
	f.lastCtx = ctx
	f.lastID = id
}

func sampleEvent(id string) *primary.Event {
	return &primary.Event{
		ID:          id,
		Name:        "Concert A",
		EventType:   "Sports & Entertainment",
		ScheduledAt: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:    "Stadium",
		CrowdSize:   500,
		Status:      "approved",
	}
}

func sampleAssignment(id string) *primary.Assignment {
	return &primary.Assignment{ID: id, EventID: "EVT-0001", GuardIDs: []string{"USR-0003"}, Outcome: "active"}
}

func sentDelivery() primary.DeliveryOutcome {
	return primary.DeliveryOutcome{
		Email: primary.ChannelResult{
			Status:   primary.ChannelSent,
			Attempts: []primary.DeliveryAttempt{{Recipient: "registrar@example.com", Status: primary.ChannelSent}},
		},
		SMS: primary.ChannelResult{Status: primary.ChannelSkipped},
	}
}

func (f *fakeServices) RegisterEvent(ctx context.Context, req primary.RegisterEventRequest) (*primary.Event, error) {
	f.record(ctx, "")
	f.lastEvent = req
	if f.err != nil {
		return nil, f.err
	}
	e := sampleEvent("EVT-0001")
	e.Status = "pending"
	return e, nil
}

func (f *fakeServices) GetEvent(ctx context.Context, id string) (*primary.Event, error) {
	f.record(ctx, id)
	if f.err != nil {
		return nil, f.err
	}
	return sampleEvent(id), nil
}

func (f *fakeServices) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	f.record(ctx, "")
	if f.err != nil {
		return nil, f.err
	}
	return []*primary.Event{sampleEvent("EVT-0001")}, nil
}

func (f *fakeServices) transition(ctx context.Context, id string) (*primary.TransitionResponse, error) {
	f.record(ctx, id)
	if f.err != nil {
		return nil, f.err
	}
	d := sentDelivery()
	return &primary.TransitionResponse{Event: sampleEvent(id), Delivery: &d}, nil
}

func (f *fakeServices) ApproveEvent(ctx context.Context, id string) (*primary.TransitionResponse, error) {
	return f.transition(ctx, id)
}

func (f *fakeServices) RejectEvent(ctx context.Context, id string) (*primary.TransitionResponse, error) {
	return f.transition(ctx, id)
}

func (f *fakeServices) CompleteEvent(ctx context.Context, id string) (*primary.TransitionResponse, error) {
	f.record(ctx, id)
	if f.err != nil {
		return nil, f.err
	}
	return &primary.TransitionResponse{Event: sampleEvent(id)}, nil
}

func (f *fakeServices) AssignDuty(ctx context.Context, req primary.AssignDutyRequest) (*primary.AssignDutyResponse, error) {
	f.record(ctx, req.EventID)
	f.lastAssign = req
	if f.err != nil {
		return nil, f.err
	}
	return &primary.AssignDutyResponse{
		Event:      sampleEvent(req.EventID),
		Created:    []*primary.Assignment{sampleAssignment("DUTY-0001")},
		Deliveries: map[string]primary.DeliveryOutcome{"USR-0003": sentDelivery()},
	}, nil
}

func (f *fakeServices) UpdateAssignmentGuards(ctx context.Context, req primary.UpdateAssignmentGuardsRequest) (*primary.UpdateAssignmentGuardsResponse, error) {
	f.record(ctx, req.AssignmentID)
	if f.err != nil {
		return nil, f.err
	}
	return &primary.UpdateAssignmentGuardsResponse{Assignment: sampleAssignment(req.AssignmentID), Added: req.GuardIDs}, nil
}

func (f *fakeServices) RejectAssignment(ctx context.Context, id, reason string) (*primary.GuardActionResponse, error) {
	f.record(ctx, id)
	f.lastReason = reason
	if f.err != nil {
		return nil, f.err
	}
	a := sampleAssignment(id)
	a.Outcome = "rejected"
	return &primary.GuardActionResponse{Assignment: a, AdminDelivery: sentDelivery()}, nil
}

func (f *fakeServices) CompleteAssignment(ctx context.Context, id string) (*primary.GuardActionResponse, error) {
	f.record(ctx, id)
	if f.err != nil {
		return nil, f.err
	}
	a := sampleAssignment(id)
	a.Outcome = "completed"
	return &primary.GuardActionResponse{Assignment: a, AdminDelivery: sentDelivery(), AllAssignmentsCompleted: true}, nil
}

func (f *fakeServices) GetAssignment(ctx context.Context, id string) (*primary.Assignment, error) {
	f.record(ctx, id)
	if f.err != nil {
		return nil, f.err
	}
	return sampleAssignment(id), nil
}

func (f *fakeServices) ListAssignments(ctx context.Context, filters primary.AssignmentFilters) ([]*primary.Assignment, error) {
	f.record(ctx, filters.EventID)
	if f.err != nil {
		return nil, f.err
	}
	return []*primary.Assignment{sampleAssignment("DUTY-0001")}, nil
}

func (f *fakeServices) SaveGuardProfile(ctx context.Context, req primary.SaveGuardProfileRequest) (*primary.Guard, error) {
	f.record(ctx, req.UserID)
	return nil, f.err
}

func (f *fakeServices) ApproveGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	f.record(ctx, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &primary.Guard{User: &primary.User{ID: userID, Role: "security_guard"}, HasProfile: true, IsApproved: true}, nil
}

func (f *fakeServices) RejectGuard(ctx context.Context, userID string) (*primary.Guard, error) {
	f.record(ctx, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &primary.Guard{User: &primary.User{ID: userID, Role: "security_guard"}}, nil
}

func (f *fakeServices) ListGuards(ctx context.Context, filters primary.GuardFilters) ([]*primary.Guard, error) {
	f.record(ctx, "")
	if f.err != nil {
		return nil, f.err
	}
	return []*primary.Guard{}, nil
}

func (f *fakeServices) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	f.record(ctx, "")
	return nil, f.err
}

func (f *fakeServices) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	f.record(ctx, userID)
	return nil, f.err
}

func (f *fakeServices) ListUsers(ctx context.Context, filters primary.UserFilters) ([]*primary.User, error) {
	f.record(ctx, "")
	return nil, f.err
}

func (f *fakeServices) WhoAmI(ctx context.Context) (*primary.User, error) {
	f.record(ctx, "")
	if f.err != nil {
		return nil, f.err
	}
	return &primary.User{ID: ctxutil.ActorFromContext(ctx), Username: "admin", Role: "admin"}, nil
}

func (f *fakeServices) ListMessageLogs(ctx context.Context, filters primary.MessageLogFilters) ([]*primary.MessageLogEntry, error) {
	f.record(ctx, "")
	f.lastLogs = filters
	if f.err != nil {
		return nil, f.err
	}
	return []*primary.MessageLogEntry{}, nil
}

func (f *fakeServices) AddReview(ctx context.Context, req primary.AddReviewRequest) (*primary.Review, error) {
	f.record(ctx, req.EventID)
	f.lastReview = req
	if f.err != nil {
		return nil, f.err
	}
	rating := req.Rating
	if rating == 0 {
		rating = 5
	}
	return &primary.Review{ID: "REV-0001", EventID: req.EventID, Message: req.Message, Rating: rating}, nil
}

func (f *fakeServices) ListReviews(ctx context.Context, filters primary.ReviewFilters) ([]*primary.Review, error) {
	f.record(ctx, filters.EventID)
	f.lastRevQ = filters
	if f.err != nil {
		return nil, f.err
	}
	return []*primary.Review{}, nil
}

func (f *fakeServices) GetDashboard(ctx context.Context) (*primary.Dashboard, error) {
	f.record(ctx, "")
	if f.err != nil {
		return nil, f.err
	}
	return &primary.Dashboard{TotalEvents: 7, PendingEvents: 2, TotalGuards: 4, ApprovedGuards: 3, PendingGuards: 1}, nil
}

// fakeTokens accepts "good-<userID>" tokens.
type fakeTokens struct{}

func (fakeTokens) Parse(token string) (*auth.Claims, error) {
	if !strings.HasPrefix(token, "good-") {
		return nil, errors.New("invalid token")
	}
	c := &auth.Claims{Role: "admin"}
	c.Subject = strings.TrimPrefix(token, "good-")
	return c, nil
}

func newTestRouter(fake *fakeServices) *gin.Engine {
	svc := Services{
		Events:    fake,
		Duties:    fake,
		Guards:    fake,
		Users:     fake,
		Logs:      fake,
		Reviews:   fake,
		Dashboard: fake,
	}
	return NewRouter(svc, fakeTokens{}, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

var asAdmin = map[string]string{"Authorization": "Bearer good-USR-0001"}

func TestHealth(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantLocation string
	}{
		{"unauthenticated", fmt.Errorf("%w: login required", primary.ErrUnauthenticated), http.StatusFound, "/login?next=%2Fapi%2Fevents%2FEVT-0001%2Fapprove"},
		{"forbidden", fmt.Errorf("%w: admin only", primary.ErrPermission), http.StatusFound, "/unauthorized"},
		{"not found", fmt.Errorf("%w: event EVT-0001", primary.ErrNotFound), http.StatusNotFound, ""},
		{"validation", fmt.Errorf("%w: cannot approve", primary.ErrValidation), http.StatusUnprocessableEntity, ""},
		{"internal", errors.New("disk full"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newTestRouter(&fakeServices{err: tt.err}), http.MethodPost, "/api/events/EVT-0001/approve", "", asAdmin)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantLocation != "" && w.Header().Get("Location") != tt.wantLocation {
				t.Errorf("expected Location %q, got %q", tt.wantLocation, w.Header().Get("Location"))
			}
			if tt.name == "internal" && strings.Contains(w.Body.String(), "disk full") {
				t.Error("expected internal error details to stay out of the response")
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		cookie  string
		want    string
	}{
		{name: "bearer", headers: asAdmin, want: "USR-0001"},
		{name: "cookie", cookie: "good-USR-0002", want: "USR-0002"},
		{name: "invalid token is anonymous", headers: map[string]string{"Authorization": "Bearer forged"}, want: ""},
		{name: "no credentials", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeServices{}
			r := newTestRouter(fake)

			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "desas_token", Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if got := ctxutil.ActorFromContext(fake.lastCtx); got != tt.want {
				t.Errorf("expected actor %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRequestContext(t *testing.T) {
	fake := &fakeServices{}
	r := newTestRouter(fake)

	w := do(r, http.MethodGet, "/api/events/EVT-0001", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	id := w.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected generated UUID request ID, got %q", id)
	}
	if got := ctxutil.RequestIDFromContext(fake.lastCtx); got != id {
		t.Errorf("expected request ID %q in context, got %q", id, got)
	}
	if _, ok := fake.lastCtx.Deadline(); !ok {
		t.Error("expected request context to carry a deadline")
	}

	inbound := uuid.NewString()
	w = do(r, http.MethodGet, "/api/events/EVT-0001", "", map[string]string{"X-Request-ID": inbound})
	if w.Header().Get("X-Request-ID") != inbound {
		t.Errorf("expected inbound request ID to be reused")
	}
}

func TestRegisterEvent(t *testing.T) {
	fake := &fakeServices{}
	r := newTestRouter(fake)

	body := `{"name":"Concert A","event_type":"Sports & Entertainment","scheduled_at":"2026-06-01T18:00:00Z","location":"Stadium","crowd_size":500,"guard_count":4}`
	w := do(r, http.MethodPost, "/api/events", body, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if fake.lastEvent.Name != "Concert A" || fake.lastEvent.GuardCount != 4 {
		t.Errorf("unexpected request: %+v", fake.lastEvent)
	}
	if !fake.lastEvent.ScheduledAt.Equal(time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected scheduled time: %v", fake.lastEvent.ScheduledAt)
	}
	if !strings.Contains(w.Body.String(), `"status":"pending"`) {
		t.Errorf("expected pending status in body, got %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/events", `{"name":`, asAdmin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed JSON, got %d", w.Code)
	}
}

func TestApproveEvent_ReportsDelivery(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodPost, "/api/events/EVT-0001/approve", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"recipient":"registrar@example.com"`) {
		t.Errorf("expected delivery attempts in body, got %s", w.Body.String())
	}
}

func TestCompleteEvent_OmitsDelivery(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodPost, "/api/events/EVT-0001/complete", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"delivery"`) {
		t.Errorf("expected no delivery for completion, got %s", w.Body.String())
	}
}

func TestAssignDuty(t *testing.T) {
	fake := &fakeServices{}
	w := do(newTestRouter(fake), http.MethodPost, "/api/duties", `{"event_id":"EVT-0002","guard_ids":["USR-0003","USR-0004"]}`, asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if fake.lastAssign.EventID != "EVT-0002" || len(fake.lastAssign.GuardIDs) != 2 {
		t.Errorf("unexpected request: %+v", fake.lastAssign)
	}
	if !strings.Contains(w.Body.String(), `"already_assigned":[]`) {
		t.Errorf("expected empty already_assigned list, got %s", w.Body.String())
	}
}

func TestRejectAssignment(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"with reason", `{"reason":"sick"}`, "sick"},
		{"empty body", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeServices{}
			w := do(newTestRouter(fake), http.MethodPost, "/api/duties/DUTY-0001/reject", tt.body, asAdmin)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if fake.lastID != "DUTY-0001" || fake.lastReason != tt.want {
				t.Errorf("unexpected call: id=%q reason=%q", fake.lastID, fake.lastReason)
			}
		})
	}
}

func TestCompleteAssignment(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodPost, "/api/duties/DUTY-0001/complete", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"all_assignments_completed":true`) {
		t.Errorf("expected completion flag in body, got %s", w.Body.String())
	}
}

func TestListMessageLogs_Filters(t *testing.T) {
	fake := &fakeServices{}
	r := newTestRouter(fake)

	w := do(r, http.MethodGet, "/api/messages?method=sms&since=2026-01-01&limit=5", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if fake.lastLogs.Method != "sms" || fake.lastLogs.Since != "2026-01-01" || fake.lastLogs.Limit != 5 {
		t.Errorf("unexpected filters: %+v", fake.lastLogs)
	}

	w = do(r, http.MethodGet, "/api/messages?limit=ten", "", asAdmin)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for bad limit, got %d", w.Code)
	}
}

func TestListGuards_BadApprovedFlag(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodGet, "/api/guards?approved=perhaps", "", asAdmin)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestApproveGuard(t *testing.T) {
	fake := &fakeServices{}
	w := do(newTestRouter(fake), http.MethodPost, "/api/guards/USR-0005/approve", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if fake.lastID != "USR-0005" {
		t.Errorf("expected USR-0005, got %q", fake.lastID)
	}
}

func TestRejectGuard(t *testing.T) {
	fake := &fakeServices{}
	w := do(newTestRouter(fake), http.MethodPost, "/api/guards/USR-0005/reject", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if fake.lastID != "USR-0005" {
		t.Errorf("expected USR-0005, got %q", fake.lastID)
	}

	fake = &fakeServices{err: fmt.Errorf("%w: guard is on an active assignment", primary.ErrValidation)}
	w = do(newTestRouter(fake), http.MethodPost, "/api/guards/USR-0005/reject", "", asAdmin)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", w.Code)
	}
}

func TestAddReview(t *testing.T) {
	fake := &fakeServices{}
	r := newTestRouter(fake)

	w := do(r, http.MethodPost, "/api/events/EVT-0003/reviews", `{"message":"Guards on time","rating":4}`, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	want := primary.AddReviewRequest{EventID: "EVT-0003", Message: "Guards on time", Rating: 4}
	if fake.lastReview != want {
		t.Errorf("unexpected request: %+v", fake.lastReview)
	}
	if !strings.Contains(w.Body.String(), `"rating":4`) {
		t.Errorf("expected rating in body, got %s", w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/events/EVT-0003/reviews", `{"message":"No rating"}`, asAdmin)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if fake.lastReview.Rating != 0 {
		t.Errorf("expected a missing rating to reach the service as 0, got %d", fake.lastReview.Rating)
	}

	w = do(r, http.MethodPost, "/api/events/EVT-0003/reviews", "", asAdmin)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing body, got %d", w.Code)
	}
}

func TestListReviews_Filters(t *testing.T) {
	fake := &fakeServices{}
	r := newTestRouter(fake)

	w := do(r, http.MethodGet, "/api/reviews?event_id=EVT-0003&limit=3", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if fake.lastRevQ != (primary.ReviewFilters{EventID: "EVT-0003", Limit: 3}) {
		t.Errorf("unexpected filters: %+v", fake.lastRevQ)
	}
	if w.Body.String() != "[]" {
		t.Errorf("expected empty JSON list, got %s", w.Body.String())
	}

	w = do(r, http.MethodGet, "/api/reviews?limit=-1", "", asAdmin)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for negative limit, got %d", w.Code)
	}
}

func TestGetDashboard(t *testing.T) {
	w := do(newTestRouter(&fakeServices{}), http.MethodGet, "/api/dashboard", "", asAdmin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, want := range []string{`"total_events":7`, `"pending_events":2`, `"approved_guards":3`, `"pending_guards":1`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("expected %s in body, got %s", want, w.Body.String())
		}
	}

	fake := &fakeServices{err: fmt.Errorf("%w: admin only", primary.ErrPermission)}
	w = do(newTestRouter(fake), http.MethodGet, "/api/dashboard", "", asAdmin)
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/unauthorized" {
		t.Errorf("expected redirect to /unauthorized, got %d %q", w.Code, w.Header().Get("Location"))
	}
}
