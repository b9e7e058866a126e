package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/example/desas/internal/ports/primary"
)

// DutyAdapter is a thin adapter that translates CLI operations to DutyService calls.
type DutyAdapter struct {
	service primary.DutyService
	out     io.Writer
}

// NewDutyAdapter creates a new DutyAdapter with the given service.
func NewDutyAdapter(service primary.DutyService, out io.Writer) *DutyAdapter {
	return &DutyAdapter{
		service: service,
		out:     out,
	}
}

// Assign links guards to an event.
func (a *DutyAdapter) Assign(ctx context.Context, eventID string, guardIDs []string) error {
	resp, err := a.service.AssignDuty(ctx, primary.AssignDutyRequest{
		EventID:  eventID,
		GuardIDs: guardIDs,
	})
	if err != nil {
		return err
	}

	for _, created := range resp.Created {
		fmt.Fprintf(a.out, "✓ Created assignment %s for %s\n", created.ID, strings.Join(created.GuardIDs, ", "))
	}
	if len(resp.AlreadyAssigned) > 0 {
		fmt.Fprintf(a.out, "  Already assigned (not notified): %s\n", strings.Join(resp.AlreadyAssigned, ", "))
	}
	a.printDeliveries(resp.Deliveries)
	fmt.Fprintf(a.out, "Event %s is %s\n", resp.Event.ID, colorStatus(resp.Event.Status))
	return nil
}

// SetGuards replaces the guard set of an assignment.
func (a *DutyAdapter) SetGuards(ctx context.Context, assignmentID string, guardIDs []string) error {
	resp, err := a.service.UpdateAssignmentGuards(ctx, primary.UpdateAssignmentGuardsRequest{
		AssignmentID: assignmentID,
		GuardIDs:     guardIDs,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Assignment %s now has %s\n", resp.Assignment.ID, strings.Join(resp.Assignment.GuardIDs, ", "))
	if len(resp.Added) > 0 {
		fmt.Fprintf(a.out, "  Added:   %s\n", strings.Join(resp.Added, ", "))
	}
	if len(resp.Removed) > 0 {
		fmt.Fprintf(a.out, "  Removed: %s\n", strings.Join(resp.Removed, ", "))
	}
	a.printDeliveries(resp.Deliveries)
	return nil
}

// List lists assignments visible to the caller.
func (a *DutyAdapter) List(ctx context.Context, eventID, outcome string, limit int) error {
	assignments, err := a.service.ListAssignments(ctx, primary.AssignmentFilters{
		EventID: eventID,
		Outcome: outcome,
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	if len(assignments) == 0 {
		fmt.Fprintln(a.out, "No assignments found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-10s %-10s %-20s %s\n", "ID", "EVENT", "OUTCOME", "GUARDS", "DETAILS")
	fmt.Fprintln(a.out, rule)
	for _, d := range assignments {
		fmt.Fprintf(a.out, "%-10s %-10s %s %-20s %s\n",
			d.ID, d.EventID, padStatus(d.Outcome, 10), strings.Join(d.GuardIDs, ","), d.Details)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Show displays details for a single assignment.
func (a *DutyAdapter) Show(ctx context.Context, assignmentID string) error {
	d, err := a.service.GetAssignment(ctx, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	fmt.Fprintf(a.out, "\nAssignment: %s\n", d.ID)
	if d.EventName != "" {
		fmt.Fprintf(a.out, "Event:      %s (%s)\n", d.EventID, d.EventName)
	} else {
		fmt.Fprintf(a.out, "Event:      %s\n", d.EventID)
	}
	fmt.Fprintf(a.out, "Guards:     %s\n", strings.Join(d.GuardIDs, ", "))
	fmt.Fprintf(a.out, "Outcome:    %s\n", colorStatus(d.Outcome))
	if d.Details != "" {
		fmt.Fprintf(a.out, "Details:    %s\n", d.Details)
	}
	fmt.Fprintf(a.out, "Assigned:   %s\n", d.AssignedAt)
	fmt.Fprintln(a.out)
	return nil
}

// Reject records the calling guard's rejection.
func (a *DutyAdapter) Reject(ctx context.Context, assignmentID, reason string) error {
	resp, err := a.service.RejectAssignment(ctx, assignmentID, reason)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Assignment %s: %s\n", resp.Assignment.ID, resp.Assignment.Details)
	fmt.Fprintln(a.out, "  Admin notified:")
	printDelivery(a.out, "    ", resp.AdminDelivery)
	return nil
}

// Complete records the calling guard's completion.
func (a *DutyAdapter) Complete(ctx context.Context, assignmentID string) error {
	resp, err := a.service.CompleteAssignment(ctx, assignmentID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Assignment %s: %s\n", resp.Assignment.ID, resp.Assignment.Details)
	fmt.Fprintln(a.out, "  Admin notified:")
	printDelivery(a.out, "    ", resp.AdminDelivery)
	if resp.AllAssignmentsCompleted {
		fmt.Fprintf(a.out, "All assignments for %s are completed. Close it with: desas event complete %s\n",
			resp.Assignment.EventID, resp.Assignment.EventID)
	}
	return nil
}

func (a *DutyAdapter) printDeliveries(deliveries map[string]primary.DeliveryOutcome) {
	guardIDs := make([]string, 0, len(deliveries))
	for id := range deliveries {
		guardIDs = append(guardIDs, id)
	}
	sort.Strings(guardIDs)

	for _, id := range guardIDs {
		fmt.Fprintf(a.out, "  Notified %s:\n", id)
		printDelivery(a.out, "    ", deliveries[id])
	}
}
