package httpapi

import (
	"time"

	"github.com/example/desas/internal/ports/primary"
)

type registerEventBody struct {
	Name          string    `json:"name"`
	EventType     string    `json:"event_type"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Location      string    `json:"location"`
	CrowdSize     int       `json:"crowd_size"`
	PoliceCount   int       `json:"police_count"`
	CommandoCount int       `json:"commando_count"`
	GuardCount    int       `json:"guard_count"`
}

type assignDutyBody struct {
	EventID  string   `json:"event_id"`
	GuardIDs []string `json:"guard_ids"`
}

type setGuardsBody struct {
	GuardIDs []string `json:"guard_ids"`
}

type rejectAssignmentBody struct {
	Reason string `json:"reason"`
}

type addReviewBody struct {
	Message string `json:"message"`
	Rating  int    `json:"rating"`
}

type eventResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EventType      string    `json:"event_type"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Location       string    `json:"location"`
	CrowdSize      int       `json:"crowd_size"`
	PoliceCount    int       `json:"police_count"`
	CommandoCount  int       `json:"commando_count"`
	GuardCount     int       `json:"guard_count"`
	TotalRequested int       `json:"total_requested"`
	Status         string    `json:"status"`
	RegistrarID    string    `json:"registrar_id"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

type attemptResponse struct {
	Recipient string `json:"recipient"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

type channelResponse struct {
	Status   string            `json:"status"`
	Attempts []attemptResponse `json:"attempts"`
}

type deliveryResponse struct {
	Email channelResponse `json:"email"`
	SMS   channelResponse `json:"sms"`
}

type transitionResponse struct {
	Event    eventResponse     `json:"event"`
	Delivery *deliveryResponse `json:"delivery,omitempty"`
}

type assignmentResponse struct {
	ID         string   `json:"id"`
	EventID    string   `json:"event_id"`
	EventName  string   `json:"event_name,omitempty"`
	GuardIDs   []string `json:"guard_ids"`
	Outcome    string   `json:"outcome"`
	Reason     string   `json:"reason,omitempty"`
	Details    string   `json:"details"`
	AssignedAt string   `json:"assigned_at"`
}

type assignDutyResponse struct {
	Event           eventResponse               `json:"event"`
	Created         []assignmentResponse        `json:"created"`
	AlreadyAssigned []string                    `json:"already_assigned"`
	Deliveries      map[string]deliveryResponse `json:"deliveries"`
}

type setGuardsResponse struct {
	Assignment assignmentResponse          `json:"assignment"`
	Added      []string                    `json:"added"`
	Removed    []string                    `json:"removed"`
	Deliveries map[string]deliveryResponse `json:"deliveries"`
}

type guardActionResponse struct {
	Assignment              assignmentResponse `json:"assignment"`
	AdminDelivery           deliveryResponse   `json:"admin_delivery"`
	AllAssignmentsCompleted bool               `json:"all_assignments_completed"`
}

type userResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role"`
	CreatedAt    string `json:"created_at"`
}

type guardResponse struct {
	User       userResponse `json:"user"`
	CNIC       string       `json:"cnic,omitempty"`
	Age        int          `json:"age,omitempty"`
	Experience int          `json:"experience"`
	GuardType  string       `json:"guard_type,omitempty"`
	HasProfile bool         `json:"has_profile"`
	IsApproved bool         `json:"is_approved"`
}

type messageLogResponse struct {
	ID        string `json:"id"`
	Sender    string `json:"sender,omitempty"`
	Recipient string `json:"recipient"`
	Content   string `json:"content"`
	Status    string `json:"status"`
	Method    string `json:"method"`
	Direction string `json:"direction"`
	SentAt    string `json:"sent_at"`
}

type reviewResponse struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	EventName     string `json:"event_name"`
	RegistrarID   string `json:"registrar_id"`
	RegistrarName string `json:"registrar_name"`
	Message       string `json:"message"`
	Rating        int    `json:"rating"`
	CreatedAt     string `json:"created_at"`
}

type dashboardResponse struct {
	TotalEvents    int `json:"total_events"`
	PendingEvents  int `json:"pending_events"`
	TotalGuards    int `json:"total_guards"`
	ApprovedGuards int `json:"approved_guards"`
	PendingGuards  int `json:"pending_guards"`
}

func toEventResponse(e *primary.Event) eventResponse {
	return eventResponse{
		ID:             e.ID,
		Name:           e.Name,
		EventType:      e.EventType,
		ScheduledAt:    e.ScheduledAt,
		Location:       e.Location,
		CrowdSize:      e.CrowdSize,
		PoliceCount:    e.PoliceCount,
		CommandoCount:  e.CommandoCount,
		GuardCount:     e.GuardCount,
		TotalRequested: e.TotalRequested,
		Status:         e.Status,
		RegistrarID:    e.RegistrarID,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func toChannelResponse(r primary.ChannelResult) channelResponse {
	attempts := make([]attemptResponse, len(r.Attempts))
	for i, a := range r.Attempts {
		attempts[i] = attemptResponse{Recipient: a.Recipient, Status: string(a.Status), Error: a.Error}
	}
	return channelResponse{Status: string(r.Status), Attempts: attempts}
}

func toDeliveryResponse(d primary.DeliveryOutcome) deliveryResponse {
	return deliveryResponse{Email: toChannelResponse(d.Email), SMS: toChannelResponse(d.SMS)}
}

func toDeliveryMap(m map[string]primary.DeliveryOutcome) map[string]deliveryResponse {
	out := make(map[string]deliveryResponse, len(m))
	for k, v := range m {
		out[k] = toDeliveryResponse(v)
	}
	return out
}

func toAssignmentResponse(a *primary.Assignment) assignmentResponse {
	return assignmentResponse{
		ID:         a.ID,
		EventID:    a.EventID,
		EventName:  a.EventName,
		GuardIDs:   a.GuardIDs,
		Outcome:    a.Outcome,
		Reason:     a.Reason,
		Details:    a.Details,
		AssignedAt: a.AssignedAt,
	}
}

func toUserResponse(u *primary.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Phone:        u.Phone,
		Organization: u.Organization,
		Role:         u.Role,
		CreatedAt:    u.CreatedAt,
	}
}

func toGuardResponse(g *primary.Guard) guardResponse {
	return guardResponse{
		User:       toUserResponse(g.User),
		CNIC:       g.CNIC,
		Age:        g.Age,
		Experience: g.Experience,
		GuardType:  g.GuardType,
		HasProfile: g.HasProfile,
		IsApproved: g.IsApproved,
	}
}

func toMessageLogResponse(e *primary.MessageLogEntry) messageLogResponse {
	return messageLogResponse{
		ID:        e.ID,
		Sender:    e.Sender,
		Recipient: e.Recipient,
		Content:   e.Content,
		Status:    e.Status,
		Method:    e.Method,
		Direction: e.Direction,
		SentAt:    e.SentAt,
	}
}

func toReviewResponse(r *primary.Review) reviewResponse {
	return reviewResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		EventName:     r.EventName,
		RegistrarID:   r.RegistrarID,
		RegistrarName: r.RegistrarName,
		Message:       r.Message,
		Rating:        r.Rating,
		CreatedAt:     r.CreatedAt,
	}
}
