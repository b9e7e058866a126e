package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/example/desas/internal/core/duty"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users_events_and_assignments",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_message_logs",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "replace_assignment_details_with_outcome",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_event_reviews",
		Up:      migrationV4,
	},
}

// RunMigrations executes all pending migrations against the shared connection
func RunMigrations() error {
	db, err := GetDB()
	if err != nil {
		return fmt.Errorf("failed to get database: %w", err)
	}
	return Migrate(db)
}

// Migrate executes all pending migrations against database
func Migrate(database *sql.DB) error {
	if err := createVersionTable(database); err != nil {
		return err
	}

	// Get current schema version
	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		if err := migration.Up(database); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// migrationV1 creates the first tables. Assignment state lived in a free-text details column.
func migrationV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL,
			phone TEXT,
			organization TEXT,
			role TEXT NOT NULL CHECK(role IN ('admin', 'event_registrar', 'security_guard')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

		CREATE TABLE IF NOT EXISTS guard_profiles (
			user_id TEXT PRIMARY KEY,
			cnic TEXT NOT NULL UNIQUE,
			age INTEGER NOT NULL,
			experience INTEGER NOT NULL DEFAULT 0,
			guard_type TEXT NOT NULL CHECK(guard_type IN ('police', 'commando', 'security_guard')),
			is_approved INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			event_type TEXT NOT NULL,
			scheduled_at DATETIME NOT NULL,
			location TEXT NOT NULL,
			crowd_size INTEGER NOT NULL CHECK(crowd_size > 0),
			police_count INTEGER NOT NULL DEFAULT 0 CHECK(police_count >= 0),
			commando_count INTEGER NOT NULL DEFAULT 0 CHECK(commando_count >= 0),
			guard_count INTEGER NOT NULL DEFAULT 0 CHECK(guard_count >= 0),
			status TEXT NOT NULL CHECK(status IN ('pending', 'approved', 'rejected', 'assigned', 'completed')) DEFAULT 'pending',
			registrar_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (registrar_id) REFERENCES users(id)
		);
		CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
		CREATE INDEX IF NOT EXISTS idx_events_registrar ON events(registrar_id);

		CREATE TABLE IF NOT EXISTS duty_assignments (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			details TEXT,
			assigned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_duty_assignments_event ON duty_assignments(event_id);

		CREATE TABLE IF NOT EXISTS duty_assignment_guards (
			assignment_id TEXT NOT NULL,
			guard_id TEXT NOT NULL,
			PRIMARY KEY (assignment_id, guard_id),
			FOREIGN KEY (assignment_id) REFERENCES duty_assignments(id) ON DELETE CASCADE,
			FOREIGN KEY (guard_id) REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_duty_assignment_guards_guard ON duty_assignment_guards(guard_id);
	`)
	return err
}

// migrationV2 adds the append-only message log
func migrationV2(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS message_logs (
			id TEXT PRIMARY KEY,
			sender TEXT,
			recipient TEXT NOT NULL,
			content TEXT NOT NULL,
			status TEXT NOT NULL CHECK(status IN ('sent', 'failed', 'received', 'info')),
			method TEXT NOT NULL CHECK(method IN ('email', 'sms', 'system')),
			direction TEXT NOT NULL CHECK(direction IN ('incoming', 'outgoing')),
			sent_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_message_logs_recipient ON message_logs(recipient);
		CREATE INDEX IF NOT EXISTS idx_message_logs_sent_at ON message_logs(sent_at);
	`)
	return err
}

// migrationV3 turns the free-text details column into a typed outcome and
// enforces one link per (event, guard).
func migrationV3(db *sql.DB) error {
	steps := []string{
		`ALTER TABLE duty_assignments ADD COLUMN outcome TEXT NOT NULL DEFAULT 'active' CHECK(outcome IN ('active', 'rejected', 'completed'))`,
		`ALTER TABLE duty_assignments ADD COLUMN outcome_reason TEXT`,
		`ALTER TABLE duty_assignments ADD COLUMN updated_at DATETIME`,
		`UPDATE duty_assignments SET updated_at = assigned_at`,
	}
	for _, stmt := range steps {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to add outcome columns: %w", err)
		}
	}

	// Backfill outcomes from the legacy details text
	rows, err := db.Query("SELECT id, COALESCE(details, '') FROM duty_assignments")
	if err != nil {
		return fmt.Errorf("failed to read assignment details: %w", err)
	}
	type backfill struct {
		id      string
		outcome duty.Outcome
	}
	var updates []backfill
	for rows.Next() {
		var id, details string
		if err := rows.Scan(&id, &details); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan assignment details: %w", err)
		}
		updates = append(updates, backfill{id: id, outcome: duty.ParseDetails(details)})
	}
	if err := rows.Close(); err != nil {
		return err
	}
	for _, u := range updates {
		var reason sql.NullString
		if u.outcome.Kind == duty.OutcomeRejected {
			reason = sql.NullString{String: u.outcome.Reason, Valid: true}
		}
		if _, err := db.Exec("UPDATE duty_assignments SET outcome = ?, outcome_reason = ? WHERE id = ?",
			string(u.outcome.Kind), reason, u.id); err != nil {
			return fmt.Errorf("failed to backfill outcome for %s: %w", u.id, err)
		}
	}

	steps = []string{
		`ALTER TABLE duty_assignments DROP COLUMN details`,
		`ALTER TABLE duty_assignment_guards ADD COLUMN event_id TEXT REFERENCES events(id) ON DELETE CASCADE`,
		`UPDATE duty_assignment_guards SET event_id = (
			SELECT event_id FROM duty_assignments WHERE duty_assignments.id = duty_assignment_guards.assignment_id
		)`,
		// Keep the oldest link when a guard was assigned to the same event twice
		`DELETE FROM duty_assignment_guards WHERE rowid NOT IN (
			SELECT MIN(rowid) FROM duty_assignment_guards GROUP BY event_id, guard_id
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_duty_assignment_guards_event_guard ON duty_assignment_guards(event_id, guard_id)`,
	}
	for _, stmt := range steps {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate assignment links: %w", err)
		}
	}
	return nil
}

// migrationV4 adds registrar reviews of past events
func migrationV4(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS event_reviews (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL,
			registrar_id TEXT NOT NULL,
			message TEXT NOT NULL,
			rating INTEGER NOT NULL DEFAULT 5 CHECK(rating BETWEEN 1 AND 5),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (registrar_id) REFERENCES users(id) ON DELETE CASCADE
		);
		CREATE INDEX IF NOT EXISTS idx_event_reviews_event ON event_reviews(event_id);
	`)
	return err
}
