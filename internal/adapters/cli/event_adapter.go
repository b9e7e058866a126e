package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/desas/internal/ports/primary"
)

// EventAdapter is a thin adapter that translates CLI operations to EventService calls.
type EventAdapter struct {
	service primary.EventService
	out     io.Writer
}

// NewEventAdapter creates a new EventAdapter with the given service.
func NewEventAdapter(service primary.EventService, out io.Writer) *EventAdapter {
	return &EventAdapter{
		service: service,
		out:     out,
	}
}

// Register registers a new event.
func (a *EventAdapter) Register(ctx context.Context, req primary.RegisterEventRequest) error {
	event, err := a.service.RegisterEvent(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Registered event %s: %s (%s)\n", event.ID, event.Name, colorStatus(event.Status))
	return nil
}

// List lists events with optional status filter.
func (a *EventAdapter) List(ctx context.Context, status string, limit int) error {
	events, err := a.service.ListEvents(ctx, primary.EventFilters{
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-17s %-7s %s\n", "ID", "STATUS", "SCHEDULED", "GUARDS", "NAME")
	fmt.Fprintln(a.out, rule)
	for _, e := range events {
		fmt.Fprintf(a.out, "%-10s %s %-17s %-7d %s\n",
			e.ID, padStatus(e.Status, 10), e.ScheduledAt.Format("2006-01-02 15:04"), e.TotalRequested, e.Name)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single event.
func (a *EventAdapter) Show(ctx context.Context, eventID string) error {
	e, err := a.service.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	fmt.Fprintf(a.out, "\nEvent:     %s\n", e.ID)
	fmt.Fprintf(a.out, "Name:      %s\n", e.Name)
	fmt.Fprintf(a.out, "Type:      %s\n", e.EventType)
	fmt.Fprintf(a.out, "Status:    %s\n", colorStatus(e.Status))
	fmt.Fprintf(a.out, "Scheduled: %s\n", e.ScheduledAt.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(a.out, "Location:  %s\n", e.Location)
	fmt.Fprintf(a.out, "Crowd:     %d\n", e.CrowdSize)
	fmt.Fprintf(a.out, "Requested: %d police, %d commando, %d guards (%d total)\n",
		e.PoliceCount, e.CommandoCount, e.GuardCount, e.TotalRequested)
	fmt.Fprintf(a.out, "Registrar: %s\n", e.RegistrarID)
	fmt.Fprintln(a.out)
	return nil
}

// Approve approves a pending event.
func (a *EventAdapter) Approve(ctx context.Context, eventID string) error {
	return a.transition(ctx, eventID, "approved", a.service.ApproveEvent)
}

// Reject rejects a pending event.
func (a *EventAdapter) Reject(ctx context.Context, eventID string) error {
	return a.transition(ctx, eventID, "rejected", a.service.RejectEvent)
}

// Complete closes an assigned event.
func (a *EventAdapter) Complete(ctx context.Context, eventID string) error {
	return a.transition(ctx, eventID, "completed", a.service.CompleteEvent)
}

func (a *EventAdapter) transition(ctx context.Context, eventID, verb string, op func(context.Context, string) (*primary.TransitionResponse, error)) error {
	resp, err := op(ctx, eventID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Event %s %s\n", resp.Event.ID, verb)
	if resp.Delivery != nil {
		fmt.Fprintln(a.out, "  Registrar notified:")
		printDelivery(a.out, "    ", *resp.Delivery)
	}
	return nil
}
