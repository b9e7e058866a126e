package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/desas/internal/ports/primary"
)

// RosterAdapter translates CLI operations to the UserService and GuardService.
type RosterAdapter struct {
	users  primary.UserService
	guards primary.GuardService
	out    io.Writer
}

// NewRosterAdapter creates a new RosterAdapter.
func NewRosterAdapter(users primary.UserService, guards primary.GuardService, out io.Writer) *RosterAdapter {
	return &RosterAdapter{
		users:  users,
		guards: guards,
		out:    out,
	}
}

// AddUser creates a user.
func (a *RosterAdapter) AddUser(ctx context.Context, req primary.CreateUserRequest) error {
	user, err := a.users.CreateUser(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created user %s: %s (%s)\n", user.ID, user.Username, user.Role)
	return nil
}

// ListUsers lists users with optional role filter.
func (a *RosterAdapter) ListUsers(ctx context.Context, role string) error {
	users, err := a.users.ListUsers(ctx, primary.UserFilters{Role: role})
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-16s %-16s %-28s %s\n", "ID", "USERNAME", "ROLE", "EMAIL", "PHONE")
	fmt.Fprintln(a.out, rule)
	for _, u := range users {
		phone := u.Phone
		if phone == "" {
			phone = "-"
		}
		fmt.Fprintf(a.out, "%-10s %-16s %-16s %-28s %s\n", u.ID, u.Username, u.Role, u.Email, phone)
	}
	fmt.Fprintln(a.out)
	return nil
}

// WhoAmI prints the logged-in user.
func (a *RosterAdapter) WhoAmI(ctx context.Context) error {
	user, err := a.users.WhoAmI(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s) - %s\n", user.Username, user.ID, user.Role)
	return nil
}

// SaveProfile creates or updates a guard profile.
func (a *RosterAdapter) SaveProfile(ctx context.Context, req primary.SaveGuardProfileRequest) error {
	guard, err := a.guards.SaveGuardProfile(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Saved profile for %s (%s, %d years experience)\n", guard.User.ID, guard.GuardType, guard.Experience)
	if !guard.IsApproved {
		fmt.Fprintln(a.out, "  Awaiting admin approval before duty can be assigned")
	}
	return nil
}

// ApproveGuard marks a guard as deployable.
func (a *RosterAdapter) ApproveGuard(ctx context.Context, userID string) error {
	guard, err := a.guards.ApproveGuard(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Guard %s (%s) approved\n", guard.User.ID, guard.User.Username)
	return nil
}

// RejectGuard removes a guard from the roster.
func (a *RosterAdapter) RejectGuard(ctx context.Context, userID string) error {
	guard, err := a.guards.RejectGuard(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Guard %s (%s) rejected and removed\n", guard.User.ID, guard.User.Username)
	return nil
}

// ListGuards lists the guard roster.
func (a *RosterAdapter) ListGuards(ctx context.Context, approvedOnly bool, guardType string) error {
	guards, err := a.guards.ListGuards(ctx, primary.GuardFilters{
		ApprovedOnly: approvedOnly,
		GuardType:    guardType,
	})
	if err != nil {
		return fmt.Errorf("failed to list guards: %w", err)
	}

	if len(guards) == 0 {
		fmt.Fprintln(a.out, "No guards found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-10s %-16s %-15s %-5s %-10s %s\n", "ID", "USERNAME", "TYPE", "EXP", "APPROVED", "CNIC")
	fmt.Fprintln(a.out, rule)
	for _, g := range guards {
		if !g.HasProfile {
			fmt.Fprintf(a.out, "%-10s %-16s %s\n", g.User.ID, g.User.Username, colorStatus("pending")+" (no profile)")
			continue
		}
		approved := padStatus("no", 10)
		if g.IsApproved {
			approved = fmt.Sprintf("%-10s", "yes")
		}
		fmt.Fprintf(a.out, "%-10s %-16s %-15s %-5d %s %s\n", g.User.ID, g.User.Username, g.GuardType, g.Experience, approved, g.CNIC)
	}
	fmt.Fprintln(a.out)
	return nil
}
