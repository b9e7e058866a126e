package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/wire"
)

// scheduleLayouts are accepted by --at, tried in order. Layouts without a zone use local time.
var scheduleLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"}

func parseSchedule(value string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at %q: use 'YYYY-MM-DD HH:MM' or RFC3339", value)
}

// EventCmd returns the event command group.
func EventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Register and review events",
		Long:  "Register events that need security cover and move them through approval",
	}

	cmd.AddCommand(eventRegisterCmd())
	cmd.AddCommand(eventListCmd())
	cmd.AddCommand(eventShowCmd())
	cmd.AddCommand(eventTransitionCmd("approve", "Approve a pending event and notify its registrar", func(id string) error {
		return wire.EventAdapter().Approve(NewContext(), id)
	}))
	cmd.AddCommand(eventTransitionCmd("reject", "Reject a pending event and notify its registrar", func(id string) error {
		return wire.EventAdapter().Reject(NewContext(), id)
	}))
	cmd.AddCommand(eventTransitionCmd("complete", "Close an assigned event", func(id string) error {
		return wire.EventAdapter().Complete(NewContext(), id)
	}))
	return cmd
}

func eventRegisterCmd() *cobra.Command {
	var req primary.RegisterEventRequest
	var at string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new event (event registrars only)",
		Long: `Register a new event. It starts as pending until an admin approves it.

Examples:
  desas event register --name "Concert A" --type "Sports & Entertainment Events" \
    --at "2026-06-01 18:00" --location "National Stadium" --crowd 5000 --police 4 --guards 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled, err := parseSchedule(at)
			if err != nil {
				return err
			}
			req.ScheduledAt = scheduled
			return wire.EventAdapter().Register(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Event name")
	cmd.Flags().StringVar(&req.EventType, "type", "", "Event category")
	cmd.Flags().StringVar(&at, "at", "", "Scheduled start ('YYYY-MM-DD HH:MM' local, or RFC3339)")
	cmd.Flags().StringVar(&req.Location, "location", "", "Venue")
	cmd.Flags().IntVar(&req.CrowdSize, "crowd", 0, "Expected attendance")
	cmd.Flags().IntVar(&req.PoliceCount, "police", 0, "Police officers requested")
	cmd.Flags().IntVar(&req.CommandoCount, "commando", 0, "Commandos requested")
	cmd.Flags().IntVar(&req.GuardCount, "guards", 0, "Security guards requested")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("at")
	cmd.MarkFlagRequired("location")
	return cmd
}

func eventListCmd() *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events (registrars see their own)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.EventAdapter().List(NewContext(), status, limit)
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Filter by status (pending, approved, rejected, assigned, completed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to show")
	return cmd
}

func eventShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [event-id]",
		Short: "Show event details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "event"); err != nil {
				return err
			}
			return wire.EventAdapter().Show(NewContext(), args[0])
		},
	}
}

func eventTransitionCmd(use, short string, run func(id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [event-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "event"); err != nil {
				return err
			}
			return run(args[0])
		},
	}
}
