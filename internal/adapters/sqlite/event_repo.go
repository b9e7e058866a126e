package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// EventRepository implements secondary.EventRepository with SQLite.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventSelectCols = "id, name, event_type, scheduled_at, location, crowd_size, police_count, commando_count, guard_count, status, registrar_id, created_at, updated_at"

func scanEvent(scanner interface {
	Scan(dest ...any) error
}) (*secondary.EventRecord, error) {
	var (
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.EventRecord{}
	err := scanner.Scan(
		&record.ID, &record.Name, &record.EventType, &record.ScheduledAt, &record.Location,
		&record.CrowdSize, &record.PoliceCount, &record.CommandoCount, &record.GuardCount,
		&record.Status, &record.RegistrarID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.ScheduledAt = record.ScheduledAt.UTC()
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Create persists a new event.
func (r *EventRepository) Create(ctx context.Context, event *secondary.EventRecord) error {
	status := event.Status
	if status == "" {
		status = "pending"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, name, event_type, scheduled_at, location, crowd_size, police_count, commando_count, guard_count, status, registrar_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Name, event.EventType, event.ScheduledAt.UTC(), event.Location, event.CrowdSize,
		event.PoliceCount, event.CommandoCount, event.GuardCount, status, event.RegistrarID,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*secondary.EventRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+eventSelectCols+" FROM events WHERE id = ?", id)

	record, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return record, nil
}

// List retrieves events matching the given filters, soonest first.
func (r *EventRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	query := "SELECT " + eventSelectCols + " FROM events WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.RegistrarID != "" {
		query += " AND registrar_id = ?"
		args = append(args, filters.RegistrarID)
	}

	query += " ORDER BY scheduled_at ASC, id ASC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		record, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, record)
	}
	return events, rows.Err()
}

// UpdateStatus moves an event from one status to another.
func (r *EventRepository) UpdateStatus(ctx context.Context, id, from, to string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE events SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?",
		to, id, from,
	)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check event existence: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("event %s: %w", id, secondary.ErrNotFound)
	}
	return fmt.Errorf("event %s is no longer %s: %w", id, from, secondary.ErrConflict)
}

// GetNextID returns the next available event ID.
func (r *EventRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM events",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next event ID: %w", err)
	}
	return fmt.Sprintf("EVT-%04d", maxID+1), nil
}

// Ensure EventRepository implements the interface.
var _ secondary.EventRepository = (*EventRepository)(nil)
