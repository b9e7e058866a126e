package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/desas/internal/core/messagelog"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// sentAtLayout keeps timestamps fixed-width so they sort as text.
const sentAtLayout = "2006-01-02 15:04:05.000000"

// AuditEntry is a message log row before it gets an ID and a timestamp.
type AuditEntry struct {
	Sender    string
	Recipient string
	Content   string
	Status    messagelog.Status
	Method    messagelog.Method
	Direction messagelog.Direction
}

// AuditLogger appends rows to the message log.
// A failed write is logged and swallowed; the caller never sees it.
type AuditLogger struct {
	repo   secondary.MessageLogRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewAuditLogger creates an AuditLogger backed by repo.
func NewAuditLogger(repo secondary.MessageLogRepository, logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Record appends one row and returns it, or nil if the write failed.
// Identical calls produce distinct rows.
func (a *AuditLogger) Record(ctx context.Context, entry AuditEntry) *secondary.MessageLogRecord {
	record := &secondary.MessageLogRecord{
		ID:        uuid.NewString(),
		Sender:    entry.Sender,
		Recipient: entry.Recipient,
		Content:   entry.Content,
		Status:    string(entry.Status),
		Method:    string(entry.Method),
		Direction: string(entry.Direction),
		SentAt:    a.now().UTC().Format(sentAtLayout),
	}

	if err := a.repo.Append(ctx, record); err != nil {
		a.logger.Warn("failed to write message log",
			"recipient", entry.Recipient,
			"method", entry.Method,
			"status", entry.Status,
			"error", err)
		return nil
	}
	return record
}

// RecordDelivery writes one outgoing row per attempted recipient of each channel.
// Skipped channels write nothing.
func (a *AuditLogger) RecordDelivery(ctx context.Context, n Notification, outcome primary.DeliveryOutcome) []*secondary.MessageLogRecord {
	var written []*secondary.MessageLogRecord
	written = append(written, a.recordChannel(ctx, n.Body, messagelog.MethodEmail, outcome.Email)...)
	written = append(written, a.recordChannel(ctx, n.Body, messagelog.MethodSMS, outcome.SMS)...)
	return written
}

func (a *AuditLogger) recordChannel(ctx context.Context, content string, method messagelog.Method, result primary.ChannelResult) []*secondary.MessageLogRecord {
	if result.Status == primary.ChannelSkipped {
		return nil
	}

	var written []*secondary.MessageLogRecord
	for _, att := range result.Attempts {
		status := messagelog.StatusSent
		if att.Status == primary.ChannelFailed {
			status = messagelog.StatusFailed
		}
		record := a.Record(ctx, AuditEntry{
			Sender:    result.Sender,
			Recipient: att.Recipient,
			Content:   content,
			Status:    status,
			Method:    method,
			Direction: messagelog.DirectionOutgoing,
		})
		if record != nil {
			written = append(written, record)
		}
	}
	return written
}
