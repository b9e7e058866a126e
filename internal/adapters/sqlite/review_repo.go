package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// ReviewRepository implements secondary.ReviewRepository with SQLite.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new SQLite review repository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewSelect = `SELECT r.id, r.event_id, e.name, r.registrar_id, u.username, r.message, r.rating, r.created_at
	FROM event_reviews r
	JOIN events e ON e.id = r.event_id
	JOIN users u ON u.id = r.registrar_id`

func scanReview(scanner interface {
	Scan(dest ...any) error
}) (*secondary.ReviewRecord, error) {
	var createdAt time.Time

	record := &secondary.ReviewRecord{}
	err := scanner.Scan(&record.ID, &record.EventID, &record.EventName, &record.RegistrarID,
		&record.RegistrarName, &record.Message, &record.Rating, &createdAt)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// Create persists a new review.
func (r *ReviewRepository) Create(ctx context.Context, review *secondary.ReviewRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO event_reviews (id, event_id, registrar_id, message, rating) VALUES (?, ?, ?, ?, ?)",
		review.ID, review.EventID, review.RegistrarID, review.Message, review.Rating,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("review %s: %w", review.ID, secondary.ErrIDTaken)
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*secondary.ReviewRecord, error) {
	row := r.db.QueryRowContext(ctx, reviewSelect+" WHERE r.id = ?", id)

	record, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("review %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return record, nil
}

// List retrieves reviews matching the given filters, newest first.
func (r *ReviewRepository) List(ctx context.Context, filters secondary.ReviewFilters) ([]*secondary.ReviewRecord, error) {
	query := reviewSelect + " WHERE 1=1"
	args := []any{}

	if filters.EventID != "" {
		query += " AND r.event_id = ?"
		args = append(args, filters.EventID)
	}
	if filters.RegistrarID != "" {
		query += " AND r.registrar_id = ?"
		args = append(args, filters.RegistrarID)
	}

	query += " ORDER BY r.created_at DESC, r.id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*secondary.ReviewRecord
	for rows.Next() {
		record, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, record)
	}
	return reviews, rows.Err()
}

// GetNextID returns the next available review ID.
func (r *ReviewRepository) GetNextID(ctx context.Context) (string, error) {
	var maxID int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM event_reviews",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next review ID: %w", err)
	}
	return fmt.Sprintf("REV-%04d", maxID+1), nil
}

// Ensure ReviewRepository implements the interface.
var _ secondary.ReviewRepository = (*ReviewRepository)(nil)
