package duty

import (
	"fmt"
	"time"

	"github.com/example/desas/internal/core/effects"
	coreevent "github.com/example/desas/internal/core/event"
	"github.com/example/desas/internal/core/messagelog"
)

// AssignmentNoticeInput contains pre-fetched data for a guard's assignment notice.
type AssignmentNoticeInput struct {
	EventName   string
	ScheduledAt time.Time
	Location    string
	GuardEmail  string
	GuardPhone  string
}

// GenerateAssignmentNotice plans the email + SMS notice sent to a newly assigned guard.
func GenerateAssignmentNotice(input AssignmentNoticeInput) effects.NotifyEffect {
	n := effects.NotifyEffect{
		Subject: fmt.Sprintf("New Duty Assignment: %s", input.EventName),
		Body: fmt.Sprintf("You have been assigned to duty at %s on %s at %s.",
			input.EventName, coreevent.FormatSchedule(input.ScheduledAt), input.Location),
		SMSAllowed: true,
		Audit:      true,
	}
	if input.GuardEmail != "" {
		n.Emails = []string{input.GuardEmail}
	}
	if input.GuardPhone != "" {
		n.Phones = []string{input.GuardPhone}
	}
	return n
}

// GuardActionInput contains pre-fetched data for the admin notice of a guard action.
type GuardActionInput struct {
	GuardName  string
	EventName  string
	Reason     string // rejections only
	AdminEmail string
}

// GuardActionPlan holds the system log entry and the admin email for a guard action.
type GuardActionPlan struct {
	SystemEntry effects.AuditEffect
	AdminNotice effects.NotifyEffect
	// Note is a LogEffect when no admin address is configured, NoEffect otherwise.
	Note effects.Effect
}

// Effects returns the plan as one sequenced effect. The admin notice is the only delivery.
func (p GuardActionPlan) Effects() []effects.Effect {
	return []effects.Effect{effects.Sequence(p.SystemEntry, p.AdminNotice, p.Note)}
}

// GenerateRejectionPlan plans the admin-facing records of a guard rejecting an assignment.
func GenerateRejectionPlan(input GuardActionInput) GuardActionPlan {
	return withNote(input, GuardActionPlan{
		SystemEntry: systemEntry(fmt.Sprintf("Guard %s rejected assignment for event %s. Reason: %s",
			input.GuardName, input.EventName, input.Reason)),
		AdminNotice: adminNotice(input.AdminEmail,
			fmt.Sprintf("Assignment Rejected - %s", input.EventName),
			fmt.Sprintf("Guard %s rejected assignment for event '%s'.\nReason: %s",
				input.GuardName, input.EventName, input.Reason)),
	})
}

// GenerateCompletionPlan plans the admin-facing records of a guard completing an assignment.
func GenerateCompletionPlan(input GuardActionInput) GuardActionPlan {
	return withNote(input, GuardActionPlan{
		SystemEntry: systemEntry(fmt.Sprintf("Guard %s marked assignment for event %s as completed.",
			input.GuardName, input.EventName)),
		AdminNotice: adminNotice(input.AdminEmail,
			fmt.Sprintf("Assignment Completed - %s", input.EventName),
			fmt.Sprintf("Guard %s has marked assignment for event '%s' as completed.",
				input.GuardName, input.EventName)),
	})
}

func withNote(input GuardActionInput, plan GuardActionPlan) GuardActionPlan {
	plan.Note = effects.NoEffect{}
	if input.AdminEmail == "" {
		plan.Note = effects.LogEffect{
			Level:   "warn",
			Message: "admin email not configured, guard action notice not delivered",
			Fields:  map[string]any{"event": input.EventName, "guard": input.GuardName},
		}
	}
	return plan
}

func systemEntry(content string) effects.AuditEffect {
	return effects.AuditEffect{
		Recipient: messagelog.AdminRecipient,
		Content:   content,
		Status:    messagelog.StatusInfo,
		Method:    messagelog.MethodSystem,
		Direction: messagelog.DirectionIncoming,
	}
}

func adminNotice(adminEmail, subject, body string) effects.NotifyEffect {
	n := effects.NotifyEffect{
		Subject: subject,
		Body:    body,
		Audit:   true,
	}
	if adminEmail != "" {
		n.Emails = []string{adminEmail}
	}
	return n
}
