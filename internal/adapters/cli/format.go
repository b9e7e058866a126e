// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting,
// but delegate business logic to services.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/desas/internal/ports/primary"
)

const rule = "────────────────────────────────────────────────────────────────"

// colorStatus renders an event status, assignment outcome or channel status.
func colorStatus(status string) string {
	switch status {
	case "approved", "completed", "sent":
		return color.New(color.FgGreen).Sprint(status)
	case "pending", "active", "skipped":
		return color.New(color.FgYellow).Sprint(status)
	case "rejected", "failed":
		return color.New(color.FgRed).Sprint(status)
	case "assigned":
		return color.New(color.FgCyan).Sprint(status)
	default:
		return status
	}
}

// padStatus colours status and pads it to width so table columns stay aligned.
func padStatus(status string, width int) string {
	pad := width - len(status)
	if pad < 0 {
		pad = 0
	}
	return colorStatus(status) + strings.Repeat(" ", pad)
}

// printDelivery writes one line per channel with the per-recipient results.
func printDelivery(out io.Writer, indent string, d primary.DeliveryOutcome) {
	printChannel(out, indent, "email", d.Email)
	printChannel(out, indent, "sms", d.SMS)
}

func printChannel(out io.Writer, indent, name string, r primary.ChannelResult) {
	fmt.Fprintf(out, "%s%-5s %s\n", indent, name, colorStatus(string(r.Status)))
	for _, a := range r.Attempts {
		if a.Error != "" {
			fmt.Fprintf(out, "%s  → %s: %s (%s)\n", indent, a.Recipient, colorStatus(string(a.Status)), a.Error)
		} else {
			fmt.Fprintf(out, "%s  → %s: %s\n", indent, a.Recipient, colorStatus(string(a.Status)))
		}
	}
}
