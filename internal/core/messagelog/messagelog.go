// Package messagelog defines the vocabulary of the notification audit trail.
// This is part of the Functional Core - no I/O, only pure functions.
package messagelog

// Status is the outcome recorded for one delivery attempt.
type Status string

const (
	StatusSent     Status = "sent"
	StatusFailed   Status = "failed"
	StatusReceived Status = "received"
	StatusInfo     Status = "info"
)

// Method is the channel a message travelled over.
type Method string

const (
	MethodEmail  Method = "email"
	MethodSMS    Method = "sms"
	MethodSystem Method = "system"
)

// Direction tells whether the message left or entered the system.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// AdminRecipient is the recipient recorded for system entries addressed to the administrators.
const AdminRecipient = "Admin"

// ValidStatus reports whether s is a known status.
func ValidStatus(s Status) bool {
	switch s {
	case StatusSent, StatusFailed, StatusReceived, StatusInfo:
		return true
	}
	return false
}

// ValidMethod reports whether m is a known method.
func ValidMethod(m Method) bool {
	switch m {
	case MethodEmail, MethodSMS, MethodSystem:
		return true
	}
	return false
}

// ValidDirection reports whether d is a known direction.
func ValidDirection(d Direction) bool {
	return d == DirectionIncoming || d == DirectionOutgoing
}
