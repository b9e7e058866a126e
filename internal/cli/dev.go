package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/desas/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long: `Development utilities for working with a scratch DESAS database.

These commands require DESAS_DB_PATH to be set, so they never touch the
default database in ~/.desas.`,
	}

	cmd.AddCommand(devResetCmd())
	cmd.AddCommand(devSeedCmd())
	return cmd
}

func devSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load fixture data into an empty dev database",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := os.Getenv("DESAS_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("DESAS_DB_PATH not set\n\nThis safety check prevents seeding your real database")
			}

			db.SetPath(dbPath)
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}

			var users int
			if err := database.QueryRow("SELECT COUNT(*) FROM users").Scan(&users); err != nil {
				return fmt.Errorf("failed to inspect database: %w", err)
			}
			if users > 0 {
				return fmt.Errorf("%s already has %d users; use 'desas dev reset' to start over", dbPath, users)
			}

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Printf("✓ Seeded fixture data into %s\n", dbPath)
			return nil
		},
	}
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing database file at DESAS_DB_PATH
2. Creates a fresh database with the current schema
3. Seeds one user per role, guards and events in several states

Afterwards log in with 'desas auth login admin'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Safety check: require DESAS_DB_PATH to be set
			dbPath := os.Getenv("DESAS_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("DESAS_DB_PATH not set\n\nThis safety check prevents accidental reset of your real database")
			}

			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			db.Close()
			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			db.SetPath(dbPath)
			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nSeeded entities:")
			fmt.Println("  - 5 users (admin, registrar, guard1-3)")
			fmt.Println("  - 3 guard profiles (guard3 awaiting approval)")
			fmt.Println("  - 3 events (pending, approved, assigned)")
			fmt.Println("  - 1 active assignment")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
