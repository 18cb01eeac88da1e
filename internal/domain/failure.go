package domain

import "time"

// FailureLogEntry is a write-only audit record of one failed delivery
// attempt. Never read back by this service.
type FailureLogEntry struct {
	ID           string
	EventType    string
	Remarks      string
	SourceOrigin string
	Recipient    string
	CreatedAt    time.Time
}

// Event types recorded by the dispatcher, one row per failed attempt.
const (
	EventSMSDeliveryFailed   = "SMS_DELIVERY_FAILED"
	EventEmailDeliveryFailed = "EMAIL_DELIVERY_FAILED"
)
