package db

// SchemaSQL is the complete modern schema for fresh DESAS installs.
// This schema reflects the current state after all migrations.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own tables,
// so a column referenced by a repository but missing here fails immediately
// with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Users (single role per user)
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

-- Guard profiles (one per security_guard user)
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

-- Events
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

-- Duty assignments
CREATE TABLE IF NOT EXISTS duty_assignments (
	id TEXT PRIMARY KEY,
	event_id TEXT NOT NULL,
	outcome TEXT NOT NULL CHECK(outcome IN ('active', 'rejected', 'completed')) DEFAULT 'active',
	outcome_reason TEXT,
	assigned_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_duty_assignments_event ON duty_assignments(event_id);

-- Guards linked to an assignment. event_id is denormalized so that a guard
-- can be linked to a given event at most once.
CREATE TABLE IF NOT EXISTS duty_assignment_guards (
	assignment_id TEXT NOT NULL,
	event_id TEXT NOT NULL,
	guard_id TEXT NOT NULL,
	PRIMARY KEY (assignment_id, guard_id),
	FOREIGN KEY (assignment_id) REFERENCES duty_assignments(id) ON DELETE CASCADE,
	FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
	FOREIGN KEY (guard_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_duty_assignment_guards_event_guard ON duty_assignment_guards(event_id, guard_id);
CREATE INDEX IF NOT EXISTS idx_duty_assignment_guards_guard ON duty_assignment_guards(guard_id);

-- Message log (append-only audit trail of notifications)
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

-- Registrar reviews of events that have taken place
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
`

// InitSchema creates the database schema
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		// schema_version table exists - run any pending migrations
		return RunMigrations()
	}

	// Fresh install - create modern schema directly and mark every migration as applied
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
