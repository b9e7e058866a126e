// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/desas/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every query on the same in-memory database,
// and foreign keys are enabled so cascades behave as in production.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts a test user and returns its ID.
func seedUser(t *testing.T, db *sql.DB, id, username, role string) string {
	t.Helper()
	if role == "" {
		role = "security_guard"
	}
	_, err := db.Exec(
		"INSERT INTO users (id, username, email, role) VALUES (?, ?, ?, ?)",
		id, username, username+"@example.com", role,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedEvent inserts a test event owned by registrarID and returns its ID.
func seedEvent(t *testing.T, db *sql.DB, id, registrarID, status string) string {
	t.Helper()
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(
		`INSERT INTO events (id, name, event_type, scheduled_at, location, crowd_size, status, registrar_id)
		VALUES (?, ?, 'concert', '2026-06-01 18:00:00', 'Stadium', 500, ?, ?)`,
		id, "Event "+id, status, registrarID,
	)
	if err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return id
}

// seedGuardProfile inserts a police profile for userID.
func seedGuardProfile(t *testing.T, db *sql.DB, userID, cnic string, approved bool) {
	t.Helper()
	value := 0
	if approved {
		value = 1
	}
	_, err := db.Exec(
		"INSERT INTO guard_profiles (user_id, cnic, age, experience, guard_type, is_approved) VALUES (?, ?, 30, 5, 'police', ?)",
		userID, cnic, value,
	)
	if err != nil {
		t.Fatalf("failed to seed guard profile: %v", err)
	}
}
