package queue

import (
	"context"
	"time"

	"otp-delivery-service/internal/domain"
)

// Delivery is one leased job. Raw is the exact queue member the job was
// leased as; ack/nack settle against it.
type Delivery struct {
	Job *domain.NotificationJob
	Raw string
}

// Queue is a per-channel, at-least-once FIFO with delayed redelivery.
// Dequeue leases a job; an unsettled lease is redelivered after it expires.
type Queue interface {
	Enqueue(ctx context.Context, job *domain.NotificationJob, delay time.Duration) error
	// Dequeue blocks until a job is due on the channel or ctx is done.
	Dequeue(ctx context.Context, channel domain.Channel) (*Delivery, error)
	Ack(ctx context.Context, d *Delivery) error
	// Nack schedules the leased job for redelivery on the same channel.
	Nack(ctx context.Context, d *Delivery, delay time.Duration) error
}
