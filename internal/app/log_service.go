package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/desas/internal/core/access"
	"github.com/example/desas/internal/core/messagelog"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// MessageLogServiceImpl implements the MessageLogService interface.
type MessageLogServiceImpl struct {
	logRepo  secondary.MessageLogRepository
	identity secondary.IdentityProvider
}

// NewMessageLogService creates a new MessageLogService with injected dependencies.
func NewMessageLogService(logRepo secondary.MessageLogRepository, identity secondary.IdentityProvider) *MessageLogServiceImpl {
	return &MessageLogServiceImpl{
		logRepo:  logRepo,
		identity: identity,
	}
}

// ListMessageLogs lists entries newest first.
// Non-admins are pinned to their own email address, or their phone number if they ask for it.
func (s *MessageLogServiceImpl) ListMessageLogs(ctx context.Context, filters primary.MessageLogFilters) ([]*primary.MessageLogEntry, error) {
	who, id, err := authorize(ctx, s.identity, access.CanListMessageLogs)
	if err != nil {
		return nil, err
	}

	if filters.Method != "" && !messagelog.ValidMethod(messagelog.Method(filters.Method)) {
		return nil, fmt.Errorf("%w: unknown method %q", primary.ErrValidation, filters.Method)
	}
	if filters.Status != "" && !messagelog.ValidStatus(messagelog.Status(filters.Status)) {
		return nil, fmt.Errorf("%w: unknown status %q", primary.ErrValidation, filters.Status)
	}
	if filters.Direction != "" && !messagelog.ValidDirection(messagelog.Direction(filters.Direction)) {
		return nil, fmt.Errorf("%w: unknown direction %q", primary.ErrValidation, filters.Direction)
	}

	if filters.Since != "" && !validSince(filters.Since) {
		return nil, fmt.Errorf("%w: since must be RFC3339 or YYYY-MM-DD, got %q", primary.ErrValidation, filters.Since)
	}

	recipient := filters.Recipient
	if !id.IsAdmin() {
		if who.Phone == "" || recipient != who.Phone {
			recipient = who.Email
		}
	}

	records, err := s.logRepo.List(ctx, secondary.MessageLogFilters{
		Recipient: recipient,
		Method:    filters.Method,
		Status:    filters.Status,
		Direction: filters.Direction,
		Since:     filters.Since,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list message log: %w", err)
	}

	entries := make([]*primary.MessageLogEntry, len(records))
	for i, r := range records {
		entries[i] = recordToLogEntry(r)
	}
	return entries, nil
}

func validSince(since string) bool {
	if _, err := time.Parse(time.RFC3339, since); err == nil {
		return true
	}
	_, err := time.Parse("2006-01-02", since)
	return err == nil
}

func recordToLogEntry(r *secondary.MessageLogRecord) *primary.MessageLogEntry {
	return &primary.MessageLogEntry{
		ID:        r.ID,
		Sender:    r.Sender,
		Recipient: r.Recipient,
		Content:   r.Content,
		Status:    r.Status,
		Method:    r.Method,
		Direction: r.Direction,
		SentAt:    r.SentAt,
	}
}

// Ensure MessageLogServiceImpl implements the interface.
var _ primary.MessageLogService = (*MessageLogServiceImpl)(nil)
