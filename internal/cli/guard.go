package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/wire"
)

// GuardCmd returns the guard roster command group.
func GuardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Manage the security guard roster",
	}

	cmd.AddCommand(guardListCmd())
	cmd.AddCommand(guardApproveCmd())
	cmd.AddCommand(guardRejectCmd())
	cmd.AddCommand(guardProfileCmd())
	return cmd
}

func guardListCmd() *cobra.Command {
	var approved bool
	var guardType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List guards and their profiles (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RosterAdapter().ListGuards(NewContext(), approved, guardType)
		},
	}

	cmd.Flags().BoolVar(&approved, "approved", false, "Only show approved guards")
	cmd.Flags().StringVarP(&guardType, "type", "t", "", "Filter by guard type (police, commando, security_guard)")
	return cmd
}

func guardApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve [user-id]",
		Short: "Approve a guard for duty (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "user"); err != nil {
				return err
			}
			return wire.RosterAdapter().ApproveGuard(NewContext(), args[0])
		},
	}
}

func guardRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject [user-id]",
		Short: "Reject a guard and remove their account (admin only)",
		Long: `Reject a guard applicant. The user, their profile and any settled duty
links are removed. A guard still on an active assignment cannot be rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateEntityID(args[0], "user"); err != nil {
				return err
			}
			return wire.RosterAdapter().RejectGuard(NewContext(), args[0])
		},
	}
}

func guardProfileCmd() *cobra.Command {
	var req primary.SaveGuardProfileRequest

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Create or update a guard profile",
		Long: `Create or update a guard profile. Guards edit their own profile; admins
may pass --user. Saving a profile clears its approval.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.UserID == "" {
				req.UserID = GetActorID()
			}
			if err := validateEntityID(req.UserID, "user"); err != nil {
				return err
			}
			return wire.RosterAdapter().SaveProfile(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.UserID, "user", "", "Guard user ID (defaults to you)")
	cmd.Flags().StringVar(&req.CNIC, "cnic", "", "National identity card number")
	cmd.Flags().IntVar(&req.Age, "age", 0, "Age in years")
	cmd.Flags().IntVar(&req.Experience, "experience", 0, "Years of experience")
	cmd.Flags().StringVarP(&req.GuardType, "type", "t", "", "Guard type (police, commando, security_guard)")
	cmd.MarkFlagRequired("cnic")
	cmd.MarkFlagRequired("type")
	return cmd
}
