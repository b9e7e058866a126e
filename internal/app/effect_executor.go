// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/desas/internal/core/effects"
	"github.com/example/desas/internal/ports/primary"
	"github.com/example/desas/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place notifications and audit writes happen.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) (*ExecutionReport, error)
}

// ExecutionReport collects what the executed effects produced.
type ExecutionReport struct {
	// Deliveries holds one outcome per NotifyEffect, in execution order.
	Deliveries []primary.DeliveryOutcome
	// Entries holds every message log row written.
	Entries []*secondary.MessageLogRecord
}

// Delivery returns the i-th delivery outcome, or a fully skipped one if there is none.
func (r *ExecutionReport) Delivery(i int) primary.DeliveryOutcome {
	if r == nil || i < 0 || i >= len(r.Deliveries) {
		return primary.DeliveryOutcome{
			Email: primary.ChannelResult{Status: primary.ChannelSkipped},
			SMS:   primary.ChannelResult{Status: primary.ChannelSkipped},
		}
	}
	return r.Deliveries[i]
}

// DefaultEffectExecutor implements EffectExecutor with real I/O.
type DefaultEffectExecutor struct {
	dispatcher *Dispatcher
	audit      *AuditLogger
	logger     *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(dispatcher *Dispatcher, audit *AuditLogger, logger *slog.Logger) *DefaultEffectExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultEffectExecutor{
		dispatcher: dispatcher,
		audit:      audit,
		logger:     logger,
	}
}

// Execute processes a slice of effects, executing each in sequence.
// Delivery and audit failures are absorbed; only malformed effects return an error.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) (*ExecutionReport, error) {
	report := &ExecutionReport{}
	if err := e.execute(ctx, effs, report); err != nil {
		return report, err
	}
	return report, nil
}

func (e *DefaultEffectExecutor) execute(ctx context.Context, effs []effects.Effect, report *ExecutionReport) error {
	for _, eff := range effs {
		if err := e.executeOne(ctx, eff, report); err != nil {
			return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
		}
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(ctx context.Context, eff effects.Effect, report *ExecutionReport) error {
	switch typed := eff.(type) {
	case effects.NotifyEffect:
		e.executeNotify(ctx, typed, report)
		return nil
	case effects.AuditEffect:
		e.executeAudit(ctx, typed, report)
		return nil
	case effects.CompositeEffect:
		return e.execute(ctx, typed.Effects, report)
	case effects.NoEffect:
		return nil
	case effects.LogEffect:
		e.executeLog(ctx, typed)
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func (e *DefaultEffectExecutor) executeNotify(ctx context.Context, eff effects.NotifyEffect, report *ExecutionReport) {
	n := Notification{
		Subject: eff.Subject,
		Body:    eff.Body,
		Emails:  eff.Emails,
	}
	if eff.SMSAllowed {
		n.Phones = eff.Phones
	}

	outcome := e.dispatcher.Notify(ctx, n)
	report.Deliveries = append(report.Deliveries, outcome)

	if eff.Audit {
		report.Entries = append(report.Entries, e.audit.RecordDelivery(ctx, n, outcome)...)
	}
}

func (e *DefaultEffectExecutor) executeAudit(ctx context.Context, eff effects.AuditEffect, report *ExecutionReport) {
	record := e.audit.Record(ctx, AuditEntry{
		Sender:    eff.Sender,
		Recipient: eff.Recipient,
		Content:   eff.Content,
		Status:    eff.Status,
		Method:    eff.Method,
		Direction: eff.Direction,
	})
	if record != nil {
		report.Entries = append(report.Entries, record)
	}
}

func (e *DefaultEffectExecutor) executeLog(ctx context.Context, eff effects.LogEffect) {
	level := slog.LevelInfo
	switch eff.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	attrs := make([]any, 0, len(eff.Fields)*2)
	for k, v := range eff.Fields {
		attrs = append(attrs, k, v)
	}
	e.logger.Log(ctx, level, eff.Message, attrs...)
}

// Ensure DefaultEffectExecutor implements the interface.
var _ EffectExecutor = (*DefaultEffectExecutor)(nil)
