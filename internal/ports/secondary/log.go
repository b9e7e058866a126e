package secondary

import "context"

// MessageLogRepository defines the secondary port for the notification audit trail.
// Entries are immutable - there is no Update or Delete.
type MessageLogRepository interface {
	// Append persists a new log entry.
	Append(ctx context.Context, entry *MessageLogRecord) error

	// GetByID retrieves a log entry by its ID.
	GetByID(ctx context.Context, id string) (*MessageLogRecord, error)

	// List retrieves log entries matching the given filters, newest first.
	List(ctx context.Context, filters MessageLogFilters) ([]*MessageLogRecord, error)
}

// MessageLogRecord represents one delivery attempt as stored in persistence.
type MessageLogRecord struct {
	ID        string
	Sender    string // Empty string means null
	Recipient string
	Content   string
	Status    string // 'sent', 'failed', 'received', 'info'
	Method    string // 'email', 'sms', 'system'
	Direction string // 'incoming', 'outgoing'
	SentAt    string
}

// MessageLogFilters contains filter options for querying the message log.
type MessageLogFilters struct {
	Recipient string
	Method    string
	Status    string
	Direction string
	Since     string // RFC3339; empty means no lower bound
	Limit     int
}
