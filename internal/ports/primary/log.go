package primary

import "context"

// MessageLogService defines the primary port for reading the notification audit trail.
type MessageLogService interface {
	// ListMessageLogs lists entries newest first. Non-admins only see entries addressed to them.
	ListMessageLogs(ctx context.Context, filters MessageLogFilters) ([]*MessageLogEntry, error)
}

// MessageLogFilters contains filter options for querying the message log.
type MessageLogFilters struct {
	Recipient string
	Method    string
	Status    string
	Direction string
	Since     string
	Limit     int
}

// MessageLogEntry represents one delivery attempt at the port boundary.
type MessageLogEntry struct {
	ID        string
	Sender    string
	Recipient string
	Content   string
	Status    string
	Method    string
	Direction string
	SentAt    string
}
