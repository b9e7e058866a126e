package event

import (
	"fmt"
	"time"

	"github.com/example/desas/internal/core/effects"
)

// scheduleLayout is how event times appear in notifications.
const scheduleLayout = "2006-01-02 15:04 MST"

// FormatSchedule renders an event time for humans.
func FormatSchedule(t time.Time) string {
	return t.Format(scheduleLayout)
}

// NoticeInput contains pre-fetched data for registrar notifications.
type NoticeInput struct {
	EventID        string
	EventName      string
	ScheduledAt    time.Time
	RegistrarEmail string
	RegistrarPhone string
}

// NoticePlan represents the planned effects of a status change notice.
type NoticePlan struct {
	EventID string
	Notify  effects.NotifyEffect
	// Note is a LogEffect when the plan deliberately leaves a channel out, NoEffect otherwise.
	Note effects.Effect
}

// Effects returns the plan as one sequenced effect; the notification always runs first.
func (p NoticePlan) Effects() []effects.Effect {
	return []effects.Effect{effects.Sequence(p.Notify, p.Note)}
}

// GenerateApprovalNotice plans the registrar notification for an approved event.
// Email always, SMS whenever a phone number is on file.
func GenerateApprovalNotice(input NoticeInput) NoticePlan {
	body := fmt.Sprintf("Your event '%s' scheduled for %s has been approved.",
		input.EventName, FormatSchedule(input.ScheduledAt))

	return NoticePlan{
		EventID: input.EventID,
		Notify: effects.NotifyEffect{
			Subject:    fmt.Sprintf("Event Approved: %s", input.EventName),
			Body:       body,
			Emails:     nonEmpty(input.RegistrarEmail),
			Phones:     nonEmpty(input.RegistrarPhone),
			SMSAllowed: true,
			Audit:      true,
		},
		Note: effects.NoEffect{},
	}
}

// GenerateRejectionNotice plans the registrar notification for a rejected event.
// Rejections go out by email only unless smsOnReject is set.
func GenerateRejectionNotice(input NoticeInput, smsOnReject bool) NoticePlan {
	body := fmt.Sprintf("Your event '%s' scheduled for %s has been rejected. Please contact support.",
		input.EventName, FormatSchedule(input.ScheduledAt))

	plan := NoticePlan{
		EventID: input.EventID,
		Notify: effects.NotifyEffect{
			Subject:    fmt.Sprintf("Event Rejected: %s", input.EventName),
			Body:       body,
			Emails:     nonEmpty(input.RegistrarEmail),
			Phones:     nonEmpty(input.RegistrarPhone),
			SMSAllowed: smsOnReject,
			Audit:      true,
		},
		Note: effects.NoEffect{},
	}
	if !smsOnReject && input.RegistrarPhone != "" {
		plan.Note = effects.LogEffect{
			Level:   "debug",
			Message: "sms withheld for rejection notice",
			Fields:  map[string]any{"event_id": input.EventID},
		}
	}
	return plan
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
