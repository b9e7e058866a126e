package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// ============================================================================
// Repositories
// ============================================================================

var _ secondary.UserRepository = (*mockUserRepository)(nil)

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users  map[string]*secondary.UserRecord
	nextID int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*secondary.UserRecord),
		nextID: 1,
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	copied := *user
	copied.CreatedAt = "2026-01-01 00:00:00"
	copied.UpdatedAt = copied.CreatedAt
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*secondary.UserRecord, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", username, secondary.ErrNotFound)
}

func (m *mockUserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for _, u := range m.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		copied := *u
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, secondary.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("USR-%04d", id), nil
}

var _ secondary.GuardProfileRepository = (*mockGuardProfileRepository)(nil)

// mockGuardProfileRepository implements secondary.GuardProfileRepository for testing.
type mockGuardProfileRepository struct {
	profiles map[string]*secondary.GuardProfileRecord
}

func newMockGuardProfileRepository() *mockGuardProfileRepository {
	return &mockGuardProfileRepository{profiles: make(map[string]*secondary.GuardProfileRecord)}
}

func (m *mockGuardProfileRepository) Upsert(ctx context.Context, profile *secondary.GuardProfileRecord) error {
	for _, p := range m.profiles {
		if p.CNIC == profile.CNIC && p.UserID != profile.UserID {
			return fmt.Errorf("cnic %s: %w", profile.CNIC, secondary.ErrConflict)
		}
	}
	copied := *profile
	m.profiles[profile.UserID] = &copied
	return nil
}

func (m *mockGuardProfileRepository) GetByUserID(ctx context.Context, userID string) (*secondary.GuardProfileRecord, error) {
	if p, ok := m.profiles[userID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, fmt.Errorf("guard profile %s: %w", userID, secondary.ErrNotFound)
}

func (m *mockGuardProfileRepository) SetApproved(ctx context.Context, userID string, approved bool) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("guard profile %s: %w", userID, secondary.ErrNotFound)
	}
	p.IsApproved = approved
	return nil
}

func (m *mockGuardProfileRepository) List(ctx context.Context, filters secondary.GuardProfileFilters) ([]*secondary.GuardProfileRecord, error) {
	var result []*secondary.GuardProfileRecord
	for _, p := range m.profiles {
		if filters.ApprovedOnly && !p.IsApproved {
			continue
		}
		if filters.GuardType != "" && p.GuardType != filters.GuardType {
			continue
		}
		copied := *p
		result = append(result, &copied)
	}
	return result, nil
}

var _ secondary.EventRepository = (*mockEventRepository)(nil)

// mockEventRepository implements secondary.EventRepository for testing.
type mockEventRepository struct {
	events          map[string]*secondary.EventRecord
	nextID          int
	updateStatusErr error
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		events: make(map[string]*secondary.EventRecord),
		nextID: 1,
	}
}

func (m *mockEventRepository) Create(ctx context.Context, event *secondary.EventRecord) error {
	copied := *event
	m.events[event.ID] = &copied
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*secondary.EventRecord, error) {
	if e, ok := m.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, fmt.Errorf("event %s: %w", id, secondary.ErrNotFound)
}

func (m *mockEventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	var result []*secondary.EventRecord
	for _, e := range m.events {
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		if filters.RegistrarID != "" && e.RegistrarID != filters.RegistrarID {
			continue
		}
		copied := *e
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockEventRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	e, ok := m.events[id]
	if !ok {
		return fmt.Errorf("event %s: %w", id, secondary.ErrNotFound)
	}
	if e.Status != from {
		return fmt.Errorf("event %s is %s: %w", id, e.Status, secondary.ErrConflict)
	}
	e.Status = to
	return nil
}

func (m *mockEventRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("EVT-%04d", id), nil
}

var _ secondary.AssignmentRepository = (*mockAssignmentRepository)(nil)

// mockAssignmentRepository implements secondary.AssignmentRepository for testing.
type mockAssignmentRepository struct {
	assignments map[string]*secondary.AssignmentRecord
	nextID      int
	// staleIDs are handed out by GetNextID before the counter, like a read that lost a race.
	staleIDs []string
	// unscoped makes GetForGuard ignore membership.
	unscoped bool
}

func newMockAssignmentRepository() *mockAssignmentRepository {
	return &mockAssignmentRepository{
		assignments: make(map[string]*secondary.AssignmentRecord),
		nextID:      1,
	}
}

func (m *mockAssignmentRepository) linkedElsewhere(eventID, guardID, exceptID string) bool {
	for _, a := range m.assignments {
		if a.EventID != eventID || a.ID == exceptID {
			continue
		}
		for _, g := range a.GuardIDs {
			if g == guardID {
				return true
			}
		}
	}
	return false
}

func (m *mockAssignmentRepository) Create(ctx context.Context, assignment *secondary.AssignmentRecord) error {
	if _, ok := m.assignments[assignment.ID]; ok {
		return fmt.Errorf("assignment %s: %w", assignment.ID, secondary.ErrIDTaken)
	}
	for _, g := range assignment.GuardIDs {
		if m.linkedElsewhere(assignment.EventID, g, "") {
			return fmt.Errorf("guard %s: %w", g, secondary.ErrConflict)
		}
	}
	copied := *assignment
	copied.GuardIDs = append([]string(nil), assignment.GuardIDs...)
	copied.AssignedAt = "2026-01-01 00:00:00"
	m.assignments[assignment.ID] = &copied
	return nil
}

func (m *mockAssignmentRepository) get(id string) (*secondary.AssignmentRecord, bool) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, false
	}
	copied := *a
	copied.GuardIDs = append([]string(nil), a.GuardIDs...)
	return &copied, true
}

func (m *mockAssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	if a, ok := m.get(id); ok {
		return a, nil
	}
	return nil, fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
}

func (m *mockAssignmentRepository) GetForGuard(ctx context.Context, id, guardID string) (*secondary.AssignmentRecord, error) {
	if a, ok := m.get(id); ok {
		if m.unscoped {
			return a, nil
		}
		for _, g := range a.GuardIDs {
			if g == guardID {
				return a, nil
			}
		}
	}
	return nil, fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
}

func (m *mockAssignmentRepository) FindByEventAndGuard(ctx context.Context, eventID, guardID string) (*secondary.AssignmentRecord, error) {
	for id, a := range m.assignments {
		if a.EventID != eventID {
			continue
		}
		for _, g := range a.GuardIDs {
			if g == guardID {
				found, _ := m.get(id)
				return found, nil
			}
		}
	}
	return nil, nil
}

func (m *mockAssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	var result []*secondary.AssignmentRecord
	for id, a := range m.assignments {
		if filters.EventID != "" && a.EventID != filters.EventID {
			continue
		}
		if filters.Outcome != "" && a.Outcome != filters.Outcome {
			continue
		}
		if filters.GuardID != "" {
			member := false
			for _, g := range a.GuardIDs {
				member = member || g == filters.GuardID
			}
			if !member {
				continue
			}
		}
		copied, _ := m.get(id)
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockAssignmentRepository) SetGuards(ctx context.Context, id string, guardIDs []string) error {
	a, ok := m.assignments[id]
	if !ok {
		return fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
	}
	for _, g := range guardIDs {
		if m.linkedElsewhere(a.EventID, g, id) {
			return fmt.Errorf("guard %s: %w", g, secondary.ErrConflict)
		}
	}
	a.GuardIDs = append([]string(nil), guardIDs...)
	return nil
}

func (m *mockAssignmentRepository) UpdateOutcome(ctx context.Context, id, outcome, reason string, refreshAssignedAt bool) error {
	a, ok := m.assignments[id]
	if !ok {
		return fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
	}
	if a.Outcome != "active" {
		return fmt.Errorf("assignment %s is %s: %w", id, a.Outcome, secondary.ErrConflict)
	}
	a.Outcome = outcome
	a.OutcomeReason = reason
	if refreshAssignedAt {
		a.AssignedAt = "2026-01-02 00:00:00"
	}
	return nil
}

func (m *mockAssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	if len(m.staleIDs) > 0 {
		id := m.staleIDs[0]
		m.staleIDs = m.staleIDs[1:]
		return id, nil
	}
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("DUTY-%04d", id), nil
}

var _ secondary.ReviewRepository = (*mockReviewRepository)(nil)

// mockReviewRepository implements secondary.ReviewRepository for testing.
// Names are joined from the user and event mocks like the SQL join does.
type mockReviewRepository struct {
	reviews map[string]*secondary.ReviewRecord
	order   []string
	nextID  int
	users   *mockUserRepository
	events  *mockEventRepository
}

func newMockReviewRepository(users *mockUserRepository, events *mockEventRepository) *mockReviewRepository {
	return &mockReviewRepository{
		reviews: make(map[string]*secondary.ReviewRecord),
		nextID:  1,
		users:   users,
		events:  events,
	}
}

func (m *mockReviewRepository) Create(ctx context.Context, review *secondary.ReviewRecord) error {
	if _, ok := m.reviews[review.ID]; ok {
		return fmt.Errorf("review %s: %w", review.ID, secondary.ErrIDTaken)
	}
	copied := *review
	copied.CreatedAt = "2026-06-02T09:00:00Z"
	m.reviews[review.ID] = &copied
	m.order = append(m.order, review.ID)
	return nil
}

func (m *mockReviewRepository) joined(r *secondary.ReviewRecord) *secondary.ReviewRecord {
	copied := *r
	if e, ok := m.events.events[r.EventID]; ok {
		copied.EventName = e.Name
	}
	if u, ok := m.users.users[r.RegistrarID]; ok {
		copied.RegistrarName = u.Username
	}
	return &copied
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*secondary.ReviewRecord, error) {
	if r, ok := m.reviews[id]; ok {
		return m.joined(r), nil
	}
	return nil, fmt.Errorf("review %s: %w", id, secondary.ErrNotFound)
}

func (m *mockReviewRepository) List(ctx context.Context, filters secondary.ReviewFilters) ([]*secondary.ReviewRecord, error) {
	var result []*secondary.ReviewRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.reviews[m.order[i]]
		if filters.EventID != "" && r.EventID != filters.EventID {
			continue
		}
		if filters.RegistrarID != "" && r.RegistrarID != filters.RegistrarID {
			continue
		}
		result = append(result, m.joined(r))
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockReviewRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("REV-%04d", id), nil
}

var _ secondary.DashboardRepository = (*mockDashboardRepository)(nil)

// mockDashboardRepository counts over the other mocks.
type mockDashboardRepository struct {
	users    *mockUserRepository
	profiles *mockGuardProfileRepository
	events   *mockEventRepository
	err      error
}

func (m *mockDashboardRepository) Counts(ctx context.Context) (*secondary.DashboardCounts, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := &secondary.DashboardCounts{TotalEvents: len(m.events.events)}
	for _, e := range m.events.events {
		if e.Status == "pending" {
			counts.PendingEvents++
		}
	}
	for _, u := range m.users.users {
		if u.Role != "security_guard" {
			continue
		}
		counts.TotalGuards++
		if p, ok := m.profiles.profiles[u.ID]; ok && p.IsApproved {
			counts.ApprovedGuards++
		}
	}
	return counts, nil
}

var _ secondary.MessageLogRepository = (*mockMessageLogRepository)(nil)

// mockMessageLogRepository implements secondary.MessageLogRepository for testing.
type mockMessageLogRepository struct {
	mu        sync.Mutex
	entries   []*secondary.MessageLogRecord
	appendErr error
}

func newMockMessageLogRepository() *mockMessageLogRepository {
	return &mockMessageLogRepository{}
}

func (m *mockMessageLogRepository) Append(ctx context.Context, entry *secondary.MessageLogRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *mockMessageLogRepository) GetByID(ctx context.Context, id string) (*secondary.MessageLogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("message log %s: %w", id, secondary.ErrNotFound)
}

func (m *mockMessageLogRepository) List(ctx context.Context, filters secondary.MessageLogFilters) ([]*secondary.MessageLogRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.MessageLogRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if filters.Recipient != "" && e.Recipient != filters.Recipient {
			continue
		}
		if filters.Method != "" && e.Method != filters.Method {
			continue
		}
		if filters.Status != "" && e.Status != filters.Status {
			continue
		}
		if filters.Direction != "" && e.Direction != filters.Direction {
			continue
		}
		result = append(result, e)
	}
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

// byMethod returns the entries written over one method, oldest first.
func (m *mockMessageLogRepository) byMethod(method string) []*secondary.MessageLogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*secondary.MessageLogRecord
	for _, e := range m.entries {
		if e.Method == method {
			result = append(result, e)
		}
	}
	return result
}

// ============================================================================
// Identity and transports
// ============================================================================

var _ secondary.IdentityProvider = (*mockIdentityProvider)(nil)

// mockIdentityProvider implements secondary.IdentityProvider for testing.
type mockIdentityProvider struct {
	current *secondary.Identity
	err     error
}

func (m *mockIdentityProvider) CurrentIdentity(ctx context.Context) (*secondary.Identity, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.current, nil
}

var _ secondary.EmailTransport = (*mockEmailTransport)(nil)

type emailCall struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// mockEmailTransport implements secondary.EmailTransport for testing.
type mockEmailTransport struct {
	calls    []emailCall
	sendErr  error
	panicMsg string
}

func (m *mockEmailTransport) Send(ctx context.Context, subject, body, from string, to []string) error {
	m.calls = append(m.calls, emailCall{Subject: subject, Body: body, From: from, To: to})
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.sendErr
}

var _ secondary.SMSTransport = (*mockSMSTransport)(nil)

type smsCall struct {
	Body string
	From string
	To   string
}

// mockSMSTransport implements secondary.SMSTransport for testing.
type mockSMSTransport struct {
	calls []smsCall
	errs  map[string]error // keyed by destination number
}

func (m *mockSMSTransport) Send(ctx context.Context, body, from, to string) error {
	m.calls = append(m.calls, smsCall{Body: body, From: from, To: to})
	return m.errs[to]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ============================================================================
// Harness
// ============================================================================

const (
	testFromEmail  = "noreply@desas.test"
	testFromPhone  = "+15550000000"
	testAdminEmail = "admin@example.com"
)

// testHarness wires every service against in-memory mocks and a real executor.
type testHarness struct {
	users       *mockUserRepository
	profiles    *mockGuardProfileRepository
	events      *mockEventRepository
	assignments *mockAssignmentRepository
	logs        *mockMessageLogRepository
	reviews     *mockReviewRepository
	dashboard   *mockDashboardRepository
	identity    *mockIdentityProvider
	email       *mockEmailTransport
	sms         *mockSMSTransport

	eventService     *EventServiceImpl
	dutyService      *DutyServiceImpl
	userService      *UserServiceImpl
	guardService     *GuardServiceImpl
	logService       *MessageLogServiceImpl
	reviewService    *ReviewServiceImpl
	dashboardService *DashboardServiceImpl
}

type harnessOptions struct {
	withoutSMS  bool
	smsOnReject bool
}

func newTestHarness(opts harnessOptions) *testHarness {
	h := &testHarness{
		users:       newMockUserRepository(),
		profiles:    newMockGuardProfileRepository(),
		events:      newMockEventRepository(),
		assignments: newMockAssignmentRepository(),
		logs:        newMockMessageLogRepository(),
		identity:    &mockIdentityProvider{},
		email:       &mockEmailTransport{},
		sms:         &mockSMSTransport{},
	}
	h.reviews = newMockReviewRepository(h.users, h.events)
	h.dashboard = &mockDashboardRepository{users: h.users, profiles: h.profiles, events: h.events}

	var sms secondary.SMSTransport = h.sms
	if opts.withoutSMS {
		sms = nil
	}
	logger := discardLogger()
	dispatcher := NewDispatcher(h.email, sms, testFromEmail, testFromPhone, logger)
	executor := NewEffectExecutor(dispatcher, NewAuditLogger(h.logs, logger), logger)

	h.eventService = NewEventService(h.events, h.users, h.identity, executor, opts.smsOnReject)
	h.dutyService = NewDutyService(h.events, h.assignments, h.users, h.profiles, h.identity, executor, testAdminEmail)
	h.userService = NewUserService(h.users, h.identity)
	h.guardService = NewGuardService(h.users, h.profiles, h.assignments, h.identity)
	h.logService = NewMessageLogService(h.logs, h.identity)
	h.reviewService = NewReviewService(h.events, h.reviews, h.identity)
	h.reviewService.now = func() time.Time { return time.Date(2026, 6, 2, 12, 0, 0, 0, time.UTC) }
	h.dashboardService = NewDashboardService(h.dashboard, h.identity)
	return h
}

func (h *testHarness) addUser(id, username, email, phone, role string) *secondary.UserRecord {
	u := &secondary.UserRecord{ID: id, Username: username, Email: email, Phone: phone, Role: role}
	_ = h.users.Create(context.Background(), u)
	h.users.nextID++
	return u
}

func (h *testHarness) addGuard(id, username, email, phone string, approved bool) *secondary.UserRecord {
	u := h.addUser(id, username, email, phone, "security_guard")
	h.profiles.profiles[id] = &secondary.GuardProfileRecord{
		UserID:     id,
		CNIC:       "CNIC-" + id,
		Age:        30,
		Experience: 5,
		GuardType:  "security_guard",
		IsApproved: approved,
	}
	return u
}

func (h *testHarness) addEvent(id, name, status, registrarID string) *secondary.EventRecord {
	e := &secondary.EventRecord{
		ID:          id,
		Name:        name,
		EventType:   "Sports & Entertainment Events",
		ScheduledAt: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Location:    "Stadium",
		CrowdSize:   5000,
		GuardCount:  2,
		Status:      status,
		RegistrarID: registrarID,
	}
	_ = h.events.Create(context.Background(), e)
	h.events.nextID++
	return e
}

func (h *testHarness) actAs(u *secondary.UserRecord) {
	h.identity.current = &secondary.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

func (h *testHarness) logout() {
	h.identity.current = nil
}
