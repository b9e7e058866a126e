package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/wire"
)

// ReviewCmd returns the event review command group.
func ReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review events after they take place",
	}

	cmd.AddCommand(reviewAddCmd())
	cmd.AddCommand(reviewListCmd())
	return cmd
}

func reviewAddCmd() *cobra.Command {
	var req primary.AddReviewRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Review one of your events (registrar only)",
		Long: `Review an event you registered. The event must be approved and its
scheduled time must have passed. The rating defaults to 5.

Examples:
  desas review add --event EVT-0003 --message "Smooth night, guards on time"
  desas review add --event EVT-0003 --message "Late arrival" --rating 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(req.EventID, "event"); err != nil {
				return err
			}
			return wire.ReviewAdapter().Add(NewContext(), req)
		},
	}

	cmd.Flags().StringVarP(&req.EventID, "event", "e", "", "Event ID")
	cmd.Flags().StringVarP(&req.Message, "message", "m", "", "Review text")
	cmd.Flags().IntVarP(&req.Rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.MarkFlagRequired("event")
	cmd.MarkFlagRequired("message")
	return cmd
}

func reviewListCmd() *cobra.Command {
	var eventID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List event reviews, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(eventID, "event"); err != nil {
				return err
			}
			return wire.ReviewAdapter().List(NewContext(), eventID, limit)
		},
	}

	cmd.Flags().StringVarP(&eventID, "event", "e", "", "Only reviews of this event")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum rows to show")
	return cmd
}

// DashboardCmd returns the admin overview command.
func DashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show event and guard totals (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DashboardAdapter().Show(NewContext())
		},
	}
}
