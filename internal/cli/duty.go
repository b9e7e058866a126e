package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/desas/internal/wire"
)

// DutyCmd returns the duty command group.
func DutyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "duty",
		Aliases: []string{"assignment"},
		Short:   "Assign guards to events and report on duties",
	}

	cmd.AddCommand(dutyAssignCmd())
	cmd.AddCommand(dutySetGuardsCmd())
	cmd.AddCommand(dutyListCmd())
	cmd.AddCommand(dutyShowCmd())
	cmd.AddCommand(dutyRejectCmd())
	cmd.AddCommand(dutyCompleteCmd())
	return cmd
}

func dutyAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign [event-id] [guard-id...]",
		Short: "Assign approved guards to an approved event (admin only)",
		Long: `Create one assignment per guard and notify each newly assigned guard.
Guards already on the event are skipped and not notified again.

Examples:
  desas duty assign EVT-0002 USR-0003 USR-0004
  desas duty assign EVT-0002 USR-0003,USR-0004`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guardIDs := splitIDs(args[1:])
			if err := validateEntityID(args[0], "event"); err != nil {
				return err
			}
			if err := validateEntityIDs(guardIDs, "user"); err != nil {
				return err
			}
			return wire.DutyAdapter().Assign(NewContext(), args[0], guardIDs)
		},
	}
}

func dutySetGuardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-guards [assignment-id] [guard-id...]",
		Short: "Replace the guards on an active assignment (admin only)",
		Long: `Replace the guard set of an assignment. Only guards that were not
already on the assignment are notified.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			guardIDs := splitIDs(args[1:])
			if err := validateEntityID(args[0], "assignment"); err != nil {
				return err
			}
			if err := validateEntityIDs(guardIDs, "user"); err != nil {
				return err
			}
			return wire.DutyAdapter().SetGuards(NewContext(), args[0], guardIDs)
		},
	}
}

func dutyListCmd() *cobra.Command {
	var eventID, outcome string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments (guards see their own)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(eventID, "event"); err != nil {
				return err
			}
			return wire.DutyAdapter().List(NewContext(), eventID, outcome, limit)
		},
	}

	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Filter by event (required for registrars)")
	cmd.Flags().StringVarP(&outcome, "outcome", "o", "", "Filter by outcome (active, rejected, completed)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to show")
	return cmd
}

func dutyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [assignment-id]",
		Short: "Show assignment details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "assignment"); err != nil {
				return err
			}
			return wire.DutyAdapter().Show(NewContext(), args[0])
		},
	}
}

func dutyRejectCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reject [assignment-id]",
		Short: "Decline one of your assignments and notify the admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "assignment"); err != nil {
				return err
			}
			return wire.DutyAdapter().Reject(NewContext(), args[0], reason)
		},
	}

	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why you cannot take the duty")
	return cmd
}

func dutyCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [assignment-id]",
		Short: "Mark one of your assignments as completed and notify the admin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "assignment"); err != nil {
				return err
			}
			return wire.DutyAdapter().Complete(NewContext(), args[0])
		},
	}
}
