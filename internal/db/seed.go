package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: one user per
// role, guards in every approval state and events in several statuses.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	users := []struct{ id, username, email, phone, org, role string }{
		{"USR-0001", "admin", "admin@desas.local", "", "DESAS", "admin"},
		{"USR-0002", "registrar", "registrar@desas.local", "+923001110001", "City Arts Council", "event_registrar"},
		{"USR-0003", "guard1", "guard1@desas.local", "+923001110002", "", "security_guard"},
		{"USR-0004", "guard2", "guard2@desas.local", "+923001110003", "", "security_guard"},
		{"USR-0005", "guard3", "guard3@desas.local", "", "", "security_guard"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			"INSERT INTO users (id, username, email, phone, organization, role) VALUES (?, ?, ?, ?, ?, ?)",
			u.id, u.username, u.email, nullIfEmpty(u.phone), nullIfEmpty(u.org), u.role,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	profiles := []struct {
		userID, cnic, guardType string
		age, experience         int
		approved                bool
	}{
		{"USR-0003", "35202-0000001-1", "police", 34, 10, true},
		{"USR-0004", "35202-0000002-2", "commando", 29, 6, true},
		{"USR-0005", "35202-0000003-3", "security_guard", 22, 1, false},
	}
	for _, p := range profiles {
		if _, err := database.Exec(
			"INSERT INTO guard_profiles (user_id, cnic, age, experience, guard_type, is_approved) VALUES (?, ?, ?, ?, ?, ?)",
			p.userID, p.cnic, p.age, p.experience, p.guardType, p.approved,
		); err != nil {
			return fmt.Errorf("seed guard profiles: %w", err)
		}
	}

	events := []struct {
		id, name, eventType, location, status   string
		inDays, crowd, police, commando, guards int
	}{
		{"EVT-0001", "Concert A", "Sports & Entertainment Events", "National Stadium", "pending", 14, 5000, 4, 0, 10},
		{"EVT-0002", "Convocation 2026", "Educational & Academic Events", "University Hall", "approved", 21, 1200, 0, 0, 6},
		{"EVT-0003", "Trade Expo", "Social & Corporate Events", "Expo Centre", "assigned", 7, 8000, 6, 2, 12},
	}
	for _, e := range events {
		if _, err := database.Exec(
			`INSERT INTO events (id, name, event_type, scheduled_at, location, crowd_size,
				police_count, commando_count, guard_count, status, registrar_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'USR-0002')`,
			e.id, e.name, e.eventType, now.AddDate(0, 0, e.inDays).Truncate(time.Hour), e.location,
			e.crowd, e.police, e.commando, e.guards, e.status,
		); err != nil {
			return fmt.Errorf("seed events: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO duty_assignments (id, event_id, outcome) VALUES ('DUTY-0001', 'EVT-0003', 'active')",
	); err != nil {
		return fmt.Errorf("seed assignments: %w", err)
	}
	if _, err := database.Exec(
		"INSERT INTO duty_assignment_guards (assignment_id, event_id, guard_id) VALUES ('DUTY-0001', 'EVT-0003', 'USR-0003')",
	); err != nil {
		return fmt.Errorf("seed assignment guards: %w", err)
	}

	return nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
