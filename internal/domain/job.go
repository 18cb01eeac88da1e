package domain

import "time"

// Channel names a per-medium delivery queue stage.
type Channel string

const (
	ChannelSMS        Channel = "sms"
	ChannelSMSRetry   Channel = "sms-retry"
	ChannelEmail      Channel = "email"
	ChannelEmailRetry Channel = "email-retry"
)

// RetryChannel maps a primary channel to its fallback stage. Retry channels
// map to themselves: there is no stage after retry.
func (c Channel) RetryChannel() Channel {
	switch c {
	case ChannelSMS:
		return ChannelSMSRetry
	case ChannelEmail:
		return ChannelEmailRetry
	}
	return c
}

func (c Channel) IsRetry() bool {
	return c == ChannelSMSRetry || c == ChannelEmailRetry
}

// Medium collapses a retry stage back to its delivery medium.
func (c Channel) Medium() Channel {
	switch c {
	case ChannelSMSRetry:
		return ChannelSMS
	case ChannelEmailRetry:
		return ChannelEmail
	}
	return c
}

// JobPayload carries everything a worker needs to render and send one
// message. Provider is mutated when the job falls back to the next vendor.
type JobPayload struct {
	Recipient   string            `json:"recipient"`
	TemplateRef string            `json:"template_ref"`
	Subject     string            `json:"subject,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Provider    string            `json:"provider,omitempty"`
}

// NotificationJob is the ephemeral unit of work moving through the queue.
type NotificationJob struct {
	ID           string     `json:"id"`
	Channel      Channel    `json:"channel"`
	Payload      JobPayload `json:"payload"`
	AttemptsMade int        `json:"attempts_made"`
	Priority     int        `json:"priority"`
	EnqueuedAt   time.Time  `json:"enqueued_at"`
}
