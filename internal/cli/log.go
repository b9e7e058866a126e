package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/wire"
)

// LogCmd returns the message log command group.
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Inspect the notification message log",
	}

	cmd.AddCommand(logListCmd())
	return cmd
}

func logListCmd() *cobra.Command {
	var filters primary.MessageLogFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List delivered and failed notifications, newest first",
		Long: `List the message log. Admins see every entry; other users only see
entries addressed to their own email or phone.

Examples:
  desas log list --method sms --status failed
  desas log list --since 2026-01-01 -n 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LogAdapter().List(NewContext(), filters)
		},
	}

	cmd.Flags().StringVar(&filters.Recipient, "recipient", "", "Filter by recipient")
	cmd.Flags().StringVarP(&filters.Method, "method", "m", "", "Filter by method (email, sms, system)")
	cmd.Flags().StringVarP(&filters.Status, "status", "s", "", "Filter by status (sent, failed, info)")
	cmd.Flags().StringVar(&filters.Direction, "direction", "", "Filter by direction (outgoing, incoming)")
	cmd.Flags().StringVar(&filters.Since, "since", "", "Only entries at or after this date (YYYY-MM-DD or RFC3339)")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 0, "Maximum rows to show")
	return cmd
}
