package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/desas/internal/ports/secondary"
)

// sentAtLayout is the fixed-width UTC layout stored in message_logs.sent_at.
const sentAtLayout = "2006-01-02 15:04:05.000000"

// MessageLogRepository implements secondary.MessageLogRepository with SQLite.
type MessageLogRepository struct {
	db *sql.DB
}

// NewMessageLogRepository creates a new SQLite message log repository.
func NewMessageLogRepository(db *sql.DB) *MessageLogRepository {
	return &MessageLogRepository{db: db}
}

const messageLogSelectCols = "id, sender, recipient, content, status, method, direction, sent_at"

func scanMessageLog(scanner interface {
	Scan(dest ...any) error
}) (*secondary.MessageLogRecord, error) {
	var sender sql.NullString

	record := &secondary.MessageLogRecord{}
	err := scanner.Scan(&record.ID, &sender, &record.Recipient, &record.Content, &record.Status, &record.Method, &record.Direction, &record.SentAt)
	if err != nil {
		return nil, err
	}

	record.Sender = sender.String
	return record, nil
}

// Append persists a new log entry. An empty SentAt is stamped with the current time.
func (r *MessageLogRepository) Append(ctx context.Context, entry *secondary.MessageLogRecord) error {
	if entry.SentAt == "" {
		entry.SentAt = time.Now().UTC().Format(sentAtLayout)
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO message_logs (id, sender, recipient, content, status, method, direction, sent_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, nullString(entry.Sender), entry.Recipient, entry.Content, entry.Status, entry.Method, entry.Direction, entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append message log: %w", err)
	}
	return nil
}

// GetByID retrieves a log entry by its ID.
func (r *MessageLogRepository) GetByID(ctx context.Context, id string) (*secondary.MessageLogRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+messageLogSelectCols+" FROM message_logs WHERE id = ?", id)

	record, err := scanMessageLog(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("message log %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message log: %w", err)
	}
	return record, nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *MessageLogRepository) List(ctx context.Context, filters secondary.MessageLogFilters) ([]*secondary.MessageLogRecord, error) {
	query := "SELECT " + messageLogSelectCols + " FROM message_logs WHERE 1=1"
	args := []any{}

	if filters.Recipient != "" {
		query += " AND recipient = ?"
		args = append(args, filters.Recipient)
	}
	if filters.Method != "" {
		query += " AND method = ?"
		args = append(args, filters.Method)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.Direction != "" {
		query += " AND direction = ?"
		args = append(args, filters.Direction)
	}
	if filters.Since != "" {
		since, err := normalizeSince(filters.Since)
		if err != nil {
			return nil, err
		}
		query += " AND sent_at >= ?"
		args = append(args, since)
	}

	query += " ORDER BY sent_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list message logs: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.MessageLogRecord
	for rows.Next() {
		record, err := scanMessageLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message log: %w", err)
		}
		entries = append(entries, record)
	}
	return entries, rows.Err()
}

// normalizeSince accepts RFC3339 or a bare date and returns the stored layout.
func normalizeSince(since string) (string, error) {
	if t, err := time.Parse(time.RFC3339, since); err == nil {
		return t.UTC().Format(sentAtLayout), nil
	}
	if t, err := time.Parse("2006-01-02", since); err == nil {
		return t.Format(sentAtLayout), nil
	}
	return "", fmt.Errorf("invalid since %q: expected RFC3339 or YYYY-MM-DD", since)
}

// Ensure MessageLogRepository implements the interface.
var _ secondary.MessageLogRepository = (*MessageLogRepository)(nil)
