package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/wire"
)

// UserCmd returns the user directory command group.
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(userAddCmd())
	cmd.AddCommand(userListCmd())
	return cmd
}

func userAddCmd() *cobra.Command {
	var req primary.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "add [username]",
		Short: "Add a user (admin only, except for the first user)",
		Long: `Add a user. On an empty database anyone may create the first user,
which must be an admin.

Examples:
  desas user add admin --email admin@example.com --role admin
  desas user add guard1 --email guard1@example.com --phone +923001110002 --role security_guard`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = args[0]
			return wire.RosterAdapter().AddUser(NewContext(), req)
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number in E.164 form")
	cmd.Flags().StringVar(&req.Organization, "org", "", "Organization")
	cmd.Flags().StringVar(&req.Role, "role", "", "Role (admin, event_registrar, security_guard)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("role")
	return cmd
}

func userListCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.RosterAdapter().ListUsers(NewContext(), role)
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "", "Filter by role")
	return cmd
}
