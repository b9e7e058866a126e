package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/desas/internal/ports/primary"
)

// queryLimit parses ?limit=; missing means no limit.
func queryLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

func (h *handler) whoAmI(c *gin.Context) {
	user, err := h.svc.Users.WhoAmI(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

// Events

func (h *handler) registerEvent(c *gin.Context) {
	var body registerEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	event, err := h.svc.Events.RegisterEvent(c.Request.Context(), primary.RegisterEventRequest{
		Name:          body.Name,
		EventType:     body.EventType,
		ScheduledAt:   body.ScheduledAt,
		Location:      body.Location,
		CrowdSize:     body.CrowdSize,
		PoliceCount:   body.PoliceCount,
		CommandoCount: body.CommandoCount,
		GuardCount:    body.GuardCount,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(event))
}

func (h *handler) listEvents(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	events, err := h.svc.Events.ListEvents(c.Request.Context(), primary.EventFilters{
		Status: c.Query("status"),
		Limit:  limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]eventResponse, len(events))
	for i, e := range events {
		resp[i] = toEventResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getEvent(c *gin.Context) {
	event, err := h.svc.Events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(event))
}

func (h *handler) approveEvent(c *gin.Context) {
	h.transition(c, h.svc.Events.ApproveEvent)
}

func (h *handler) rejectEvent(c *gin.Context) {
	h.transition(c, h.svc.Events.RejectEvent)
}

func (h *handler) completeEvent(c *gin.Context) {
	h.transition(c, h.svc.Events.CompleteEvent)
}

func (h *handler) transition(c *gin.Context, op func(context.Context, string) (*primary.TransitionResponse, error)) {
	result, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := transitionResponse{Event: toEventResponse(result.Event)}
	if result.Delivery != nil {
		d := toDeliveryResponse(*result.Delivery)
		resp.Delivery = &d
	}
	c.JSON(http.StatusOK, resp)
}

// Duties

func (h *handler) assignDuty(c *gin.Context) {
	var body assignDutyBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Duties.AssignDuty(c.Request.Context(), primary.AssignDutyRequest{
		EventID:  body.EventID,
		GuardIDs: body.GuardIDs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	created := make([]assignmentResponse, len(result.Created))
	for i, a := range result.Created {
		created[i] = toAssignmentResponse(a)
	}
	c.JSON(http.StatusOK, assignDutyResponse{
		Event:           toEventResponse(result.Event),
		Created:         created,
		AlreadyAssigned: nonNil(result.AlreadyAssigned),
		Deliveries:      toDeliveryMap(result.Deliveries),
	})
}

func (h *handler) updateAssignmentGuards(c *gin.Context) {
	var body setGuardsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.svc.Duties.UpdateAssignmentGuards(c.Request.Context(), primary.UpdateAssignmentGuardsRequest{
		AssignmentID: c.Param("id"),
		GuardIDs:     body.GuardIDs,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, setGuardsResponse{
		Assignment: toAssignmentResponse(result.Assignment),
		Added:      nonNil(result.Added),
		Removed:    nonNil(result.Removed),
		Deliveries: toDeliveryMap(result.Deliveries),
	})
}

func (h *handler) listAssignments(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	assignments, err := h.svc.Duties.ListAssignments(c.Request.Context(), primary.AssignmentFilters{
		EventID: c.Query("event_id"),
		Outcome: c.Query("outcome"),
		Limit:   limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]assignmentResponse, len(assignments))
	for i, a := range assignments {
		resp[i] = toAssignmentResponse(a)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getAssignment(c *gin.Context) {
	assignment, err := h.svc.Duties.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAssignmentResponse(assignment))
}

func (h *handler) rejectAssignment(c *gin.Context) {
	var body rejectAssignmentBody
	// The reason is optional, so an empty body is fine.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	result, err := h.svc.Duties.RejectAssignment(c.Request.Context(), c.Param("id"), body.Reason)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGuardActionResponse(result))
}

func (h *handler) completeAssignment(c *gin.Context) {
	result, err := h.svc.Duties.CompleteAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGuardActionResponse(result))
}

func toGuardActionResponse(r *primary.GuardActionResponse) guardActionResponse {
	return guardActionResponse{
		Assignment:              toAssignmentResponse(r.Assignment),
		AdminDelivery:           toDeliveryResponse(r.AdminDelivery),
		AllAssignmentsCompleted: r.AllAssignmentsCompleted,
	}
}

// Guards

func (h *handler) listGuards(c *gin.Context) {
	approvedOnly := false
	if raw := c.Query("approved"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "approved must be true or false"})
			return
		}
		approvedOnly = b
	}

	guards, err := h.svc.Guards.ListGuards(c.Request.Context(), primary.GuardFilters{
		ApprovedOnly: approvedOnly,
		GuardType:    c.Query("type"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]guardResponse, len(guards))
	for i, g := range guards {
		resp[i] = toGuardResponse(g)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) approveGuard(c *gin.Context) {
	guard, err := h.svc.Guards.ApproveGuard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGuardResponse(guard))
}

func (h *handler) rejectGuard(c *gin.Context) {
	guard, err := h.svc.Guards.RejectGuard(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toGuardResponse(guard))
}

// Reviews

func (h *handler) addReview(c *gin.Context) {
	var body addReviewBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	review, err := h.svc.Reviews.AddReview(c.Request.Context(), primary.AddReviewRequest{
		EventID: c.Param("id"),
		Message: body.Message,
		Rating:  body.Rating,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReviewResponse(review))
}

func (h *handler) listReviews(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	reviews, err := h.svc.Reviews.ListReviews(c.Request.Context(), primary.ReviewFilters{
		EventID: c.Query("event_id"),
		Limit:   limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]reviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = toReviewResponse(r)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handler) getDashboard(c *gin.Context) {
	d, err := h.svc.Dashboard.GetDashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		TotalEvents:    d.TotalEvents,
		PendingEvents:  d.PendingEvents,
		TotalGuards:    d.TotalGuards,
		ApprovedGuards: d.ApprovedGuards,
		PendingGuards:  d.PendingGuards,
	})
}

// Message log

func (h *handler) listMessageLogs(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	entries, err := h.svc.Logs.ListMessageLogs(c.Request.Context(), primary.MessageLogFilters{
		Recipient: c.Query("recipient"),
		Method:    c.Query("method"),
		Status:    c.Query("status"),
		Direction: c.Query("direction"),
		Since:     c.Query("since"),
		Limit:     limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]messageLogResponse, len(entries))
	for i, e := range entries {
		resp[i] = toMessageLogResponse(e)
	}
	c.JSON(http.StatusOK, resp)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
