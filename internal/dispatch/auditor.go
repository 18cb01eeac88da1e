package dispatch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"otp-delivery-service/internal/domain"
)

// FailureStore persists failure audit rows.
type FailureStore interface {
	Insert(ctx context.Context, e *domain.FailureLogEntry) error
}

// Auditor records delivery failures. Best-effort: an auditor error never
// fails the delivery pipeline's own accounting.
type Auditor struct {
	store  FailureStore
	logger *zap.Logger
}

func NewAuditor(store FailureStore, logger *zap.Logger) *Auditor {
	return &Auditor{store: store, logger: logger}
}

func (a *Auditor) Record(eventType, remarks, sourceOrigin, recipient string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.store.Insert(ctx, &domain.FailureLogEntry{
		EventType:    eventType,
		Remarks:      remarks,
		SourceOrigin: sourceOrigin,
		Recipient:    recipient,
	})
	if err != nil {
		a.logger.Warn("failure audit write failed",
			zap.String("event_type", eventType),
			zap.String("source_origin", sourceOrigin),
			zap.Error(err))
	}
}
