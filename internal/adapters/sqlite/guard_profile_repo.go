package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// GuardProfileRepository implements secondary.GuardProfileRepository with SQLite.
type GuardProfileRepository struct {
	db *sql.DB
}

// NewGuardProfileRepository creates a new SQLite guard profile repository.
func NewGuardProfileRepository(db *sql.DB) *GuardProfileRepository {
	return &GuardProfileRepository{db: db}
}

const guardProfileSelectCols = "user_id, cnic, age, experience, guard_type, is_approved, created_at, updated_at"

func scanGuardProfile(scanner interface {
	Scan(dest ...any) error
}) (*secondary.GuardProfileRecord, error) {
	var (
		approved  int
		createdAt time.Time
		updatedAt time.Time
	)

	record := &secondary.GuardProfileRecord{}
	err := scanner.Scan(&record.UserID, &record.CNIC, &record.Age, &record.Experience, &record.GuardType, &approved, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	record.IsApproved = approved == 1
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	return record, nil
}

// Upsert creates or replaces the profile of a guard.
func (r *GuardProfileRepository) Upsert(ctx context.Context, profile *secondary.GuardProfileRecord) error {
	approved := 0
	if profile.IsApproved {
		approved = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO guard_profiles (user_id, cnic, age, experience, guard_type, is_approved)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			cnic = excluded.cnic,
			age = excluded.age,
			experience = excluded.experience,
			guard_type = excluded.guard_type,
			is_approved = excluded.is_approved,
			updated_at = CURRENT_TIMESTAMP`,
		profile.UserID, profile.CNIC, profile.Age, profile.Experience, profile.GuardType, approved,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("cnic %s: %w", profile.CNIC, secondary.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to save guard profile: %w", err)
	}
	return nil
}

// GetByUserID retrieves the profile for a guard user.
func (r *GuardProfileRepository) GetByUserID(ctx context.Context, userID string) (*secondary.GuardProfileRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+guardProfileSelectCols+" FROM guard_profiles WHERE user_id = ?", userID)

	record, err := scanGuardProfile(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("guard profile %s: %w", userID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guard profile: %w", err)
	}
	return record, nil
}

// SetApproved flips the approval flag.
func (r *GuardProfileRepository) SetApproved(ctx context.Context, userID string, approved bool) error {
	value := 0
	if approved {
		value = 1
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE guard_profiles SET is_approved = ?, updated_at = CURRENT_TIMESTAMP WHERE user_id = ?",
		value, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update guard approval: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("guard profile %s: %w", userID, secondary.ErrNotFound)
	}
	return nil
}

// List retrieves profiles matching the given filters.
func (r *GuardProfileRepository) List(ctx context.Context, filters secondary.GuardProfileFilters) ([]*secondary.GuardProfileRecord, error) {
	query := "SELECT " + guardProfileSelectCols + " FROM guard_profiles WHERE 1=1"
	args := []any{}

	if filters.ApprovedOnly {
		query += " AND is_approved = 1"
	}
	if filters.GuardType != "" {
		query += " AND guard_type = ?"
		args = append(args, filters.GuardType)
	}

	query += " ORDER BY user_id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guard profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*secondary.GuardProfileRecord
	for rows.Next() {
		record, err := scanGuardProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guard profile: %w", err)
		}
		profiles = append(profiles, record)
	}
	return profiles, rows.Err()
}

// Ensure GuardProfileRepository implements the interface.
var _ secondary.GuardProfileRepository = (*GuardProfileRepository)(nil)
