// Package effects defines effect types as data structures representing I/O operations.
// This is the foundation of the Functional Core / Imperative Shell pattern.
// Effects are pure data - they describe what should happen, not how.
package effects

import "github.com/example/desas/internal/core/messagelog"

// Effect is the base interface for all effects.
// Effects represent I/O operations as data that can be interpreted by the shell.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// NotifyEffect represents a best-effort notification over email and SMS.
// The executor records one audit row per attempted recipient unless Audit is false.
type NotifyEffect struct {
	Subject string
	Body    string
	Emails  []string
	Phones  []string
	// SMSAllowed lets a plan restrict a notification to email even when phones are known.
	SMSAllowed bool
	Audit      bool
}

func (e NotifyEffect) EffectType() string { return "notify" }

// AuditEffect represents a message log entry that is not tied to a delivery,
// e.g. a system notice addressed to the administrators.
type AuditEffect struct {
	Sender    string
	Recipient string
	Content   string
	Status    messagelog.Status
	Method    messagelog.Method
	Direction messagelog.Direction
}

func (e AuditEffect) EffectType() string { return "audit" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }

// Sequence combines effects into one, dropping NoEffect and nil entries.
// It returns NoEffect when nothing is left and the effect itself when only one is.
func Sequence(effs ...Effect) Effect {
	var kept []Effect
	for _, e := range effs {
		if e == nil {
			continue
		}
		if _, ok := e.(NoEffect); ok {
			continue
		}
		kept = append(kept, e)
	}
	switch len(kept) {
	case 0:
		return NoEffect{}
	case 1:
		return kept[0]
	}
	return CompositeEffect{Effects: kept}
}
