package primary

// ChannelStatus is the per-channel result of a notification.
type ChannelStatus string

const (
	ChannelSent    ChannelStatus = "sent"
	ChannelFailed  ChannelStatus = "failed"
	ChannelSkipped ChannelStatus = "skipped"
)

// DeliveryAttempt is the result for a single recipient address.
type DeliveryAttempt struct {
	Recipient string
	Status    ChannelStatus
	Error     string // Empty when the attempt succeeded
}

// ChannelResult aggregates the attempts made on one channel.
type ChannelResult struct {
	Status   ChannelStatus
	Sender   string
	Attempts []DeliveryAttempt
}

// DeliveryOutcome reports what happened on each channel of one notification.
type DeliveryOutcome struct {
	Email ChannelResult
	SMS   ChannelResult
}
