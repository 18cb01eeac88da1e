package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/id"
)

// FailureRepo persists delivery failure audit rows. Write-only.
type FailureRepo struct {
	db *pgxpool.Pool
}

func NewFailureRepo(db *pgxpool.Pool) *FailureRepo {
	return &FailureRepo{db: db}
}

func (r *FailureRepo) Insert(ctx context.Context, e *domain.FailureLogEntry) error {
	if e.ID == "" {
		e.ID = id.New("flr")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO delivery_failures (id, event_type, remarks, source_origin, recipient, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.ID, e.EventType, e.Remarks, e.SourceOrigin, e.Recipient, e.CreatedAt)
	return err
}
