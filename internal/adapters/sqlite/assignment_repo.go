package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// AssignmentRepository implements secondary.AssignmentRepository with SQLite.
// Guard links live in duty_assignment_guards; a guard may be linked to an event only once.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentSelectCols = "a.id, a.event_id, a.outcome, a.outcome_reason, a.assigned_at, a.updated_at"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanAssignment(scanner interface {
	Scan(dest ...any) error
}) (*secondary.AssignmentRecord, error) {
	var (
		reason     sql.NullString
		assignedAt time.Time
		updatedAt  time.Time
	)

	record := &secondary.AssignmentRecord{}
	err := scanner.Scan(&record.ID, &record.EventID, &record.Outcome, &reason, &assignedAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.OutcomeReason = reason.String
	record.AssignedAt = assignedAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// loadGuardIDs fills GuardIDs in insertion order. Callers must have closed any open row set.
func loadGuardIDs(ctx context.Context, q queryer, record *secondary.AssignmentRecord) error {
	rows, err := q.QueryContext(ctx,
		"SELECT guard_id FROM duty_assignment_guards WHERE assignment_id = ? ORDER BY rowid ASC",
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to load assignment guards: %w", err)
	}
	defer rows.Close()

	record.GuardIDs = []string{}
	for rows.Next() {
		var guardID string
		if err := rows.Scan(&guardID); err != nil {
			return fmt.Errorf("failed to scan assignment guard: %w", err)
		}
		record.GuardIDs = append(record.GuardIDs, guardID)
	}
	return rows.Err()
}

func insertLinks(ctx context.Context, tx *sql.Tx, assignmentID, eventID string, guardIDs []string) error {
	for _, guardID := range guardIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO duty_assignment_guards (assignment_id, event_id, guard_id) VALUES (?, ?, ?)",
			assignmentID, eventID, guardID,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("guard %s already linked to event %s: %w", guardID, eventID, secondary.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to link guard %s: %w", guardID, err)
		}
	}
	return nil
}

// Create persists a new assignment together with its guard links.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *secondary.AssignmentRecord) error {
	outcome := assignment.Outcome
	if outcome == "" {
		outcome = "active"
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO duty_assignments (id, event_id, outcome, outcome_reason) VALUES (?, ?, ?, ?)",
		assignment.ID, assignment.EventID, outcome, nullString(assignment.OutcomeReason),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("assignment %s: %w", assignment.ID, secondary.ErrIDTaken)
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := insertLinks(ctx, tx, assignment.ID, assignment.EventID, assignment.GuardIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment by its ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentSelectCols+" FROM duty_assignments a WHERE a.id = ?",
		id,
	)
	return r.fetch(ctx, row, id)
}

// GetForGuard retrieves an assignment only if guardID is one of its guards.
func (r *AssignmentRepository) GetForGuard(ctx context.Context, id, guardID string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+assignmentSelectCols+` FROM duty_assignments a
		WHERE a.id = ? AND EXISTS (
			SELECT 1 FROM duty_assignment_guards g WHERE g.assignment_id = a.id AND g.guard_id = ?
		)`,
		id, guardID,
	)
	return r.fetch(ctx, row, id)
}

func (r *AssignmentRepository) fetch(ctx context.Context, row *sql.Row, id string) (*secondary.AssignmentRecord, error) {
	record, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := loadGuardIDs(ctx, r.db, record); err != nil {
		return nil, err
	}
	return record, nil
}

// FindByEventAndGuard returns the assignment linking guardID to eventID, or nil.
func (r *AssignmentRepository) FindByEventAndGuard(ctx context.Context, eventID, guardID string) (*secondary.AssignmentRecord, error) {
	var assignmentID string
	err := r.db.QueryRowContext(ctx,
		"SELECT assignment_id FROM duty_assignment_guards WHERE event_id = ? AND guard_id = ?",
		eventID, guardID,
	).Scan(&assignmentID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up guard link: %w", err)
	}
	return r.GetByID(ctx, assignmentID)
}

// List retrieves assignments matching the given filters, newest first.
func (r *AssignmentRepository) List(ctx context.Context, filters secondary.AssignmentFilters) ([]*secondary.AssignmentRecord, error) {
	query := "SELECT " + assignmentSelectCols + " FROM duty_assignments a WHERE 1=1"
	args := []any{}

	if filters.EventID != "" {
		query += " AND a.event_id = ?"
		args = append(args, filters.EventID)
	}
	if filters.GuardID != "" {
		query += " AND EXISTS (SELECT 1 FROM duty_assignment_guards g WHERE g.assignment_id = a.id AND g.guard_id = ?)"
		args = append(args, filters.GuardID)
	}
	if filters.Outcome != "" {
		query += " AND a.outcome = ?"
		args = append(args, filters.Outcome)
	}

	query += " ORDER BY a.assigned_at DESC, a.id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	var assignments []*secondary.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignment(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, record)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}
	rows.Close()

	for _, record := range assignments {
		if err := loadGuardIDs(ctx, r.db, record); err != nil {
			return nil, err
		}
	}
	return assignments, nil
}

// SetGuards replaces the guard set of an assignment.
func (r *AssignmentRepository) SetGuards(ctx context.Context, id string, guardIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var eventID string
	err = tx.QueryRowContext(ctx, "SELECT event_id FROM duty_assignments WHERE id = ?", id).Scan(&eventID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM duty_assignment_guards WHERE assignment_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear assignment guards: %w", err)
	}
	if err := insertLinks(ctx, tx, id, eventID, guardIDs); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE duty_assignments SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to touch assignment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment guards: %w", err)
	}
	return nil
}

// UpdateOutcome records a guard action on an active assignment.
func (r *AssignmentRepository) UpdateOutcome(ctx context.Context, id, outcome, reason string, refreshAssignedAt bool) error {
	query := "UPDATE duty_assignments SET outcome = ?, outcome_reason = ?, updated_at = CURRENT_TIMESTAMP"
	if refreshAssignedAt {
		query += ", assigned_at = CURRENT_TIMESTAMP"
	}
	query += " WHERE id = ? AND outcome = 'active'"

	result, err := r.db.ExecContext(ctx, query, outcome, nullString(reason), id)
	if err != nil {
		return fmt.Errorf("failed to update assignment outcome: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM duty_assignments WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check assignment existence: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("assignment %s: %w", id, secondary.ErrNotFound)
	}
	return fmt.Errorf("assignment %s is no longer active: %w", id, secondary.ErrConflict)
}

// GetNextID returns the next available assignment ID.
func (r *AssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 6) AS INTEGER)), 0) FROM duty_assignments",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next assignment ID: %w", err)
	}
	return fmt.Sprintf("DUTY-%04d", maxID+1), nil
}

// Ensure AssignmentRepository implements the interface.
var _ secondary.AssignmentRepository = (*AssignmentRepository)(nil)
