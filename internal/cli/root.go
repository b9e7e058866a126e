package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/desas/internal/version"
)

// RootCmd builds the desas command tree.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "desas",
		Short:   "DESAS - event security coordination",
		Version: version.String(),
		Long: `DESAS coordinates security cover for public events. Registrars submit
events, admins approve them and assign approved guards, and guards accept
or decline their duties. Every notification is recorded in the message log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			DetectAndStoreActor()
		},
	}

	rootCmd.AddCommand(AuthCmd())
	rootCmd.AddCommand(UserCmd())
	rootCmd.AddCommand(GuardCmd())
	rootCmd.AddCommand(EventCmd())
	rootCmd.AddCommand(DutyCmd())
	rootCmd.AddCommand(ReviewCmd())
	rootCmd.AddCommand(DashboardCmd())
	rootCmd.AddCommand(LogCmd())
	rootCmd.AddCommand(ServeCmd())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.String())
		},
	})

	// Developer tools
	rootCmd.AddCommand(DevCmd())
	return rootCmd
}
