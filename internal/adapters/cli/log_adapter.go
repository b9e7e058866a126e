package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/desas/internal/ports/primary"
)

// LogAdapter translates CLI operations to MessageLogService calls.
type LogAdapter struct {
	service primary.MessageLogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter with the given service.
func NewLogAdapter(service primary.MessageLogService, out io.Writer) *LogAdapter {
	return &LogAdapter{
		service: service,
		out:     out,
	}
}

// List prints the message log newest first.
func (a *LogAdapter) List(ctx context.Context, filters primary.MessageLogFilters) error {
	entries, err := a.service.ListMessageLogs(ctx, filters)
	if err != nil {
		return fmt.Errorf("failed to list message log: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No messages found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-26s %-7s %-8s %-9s %-28s %s\n", "SENT", "METHOD", "STATUS", "DIRECTION", "RECIPIENT", "CONTENT")
	fmt.Fprintln(a.out, rule)
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-26s %-7s %s %-9s %-28s %s\n",
			e.SentAt, e.Method, padStatus(e.Status, 8), e.Direction, e.Recipient, truncate(e.Content, 60))
	}
	fmt.Fprintln(a.out)
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
