package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"otp-delivery-service/pkg/id"
)

type CustomerRepo struct {
	db *pgxpool.Pool
}

func NewCustomerRepo(db *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{db: db}
}

// Create provisions a customer record on first successful verification
// (signup) and returns its id. loginType is "email" or "phone".
func (r *CustomerRepo) Create(ctx context.Context, loginType string) (string, error) {
	customerID := id.New("cus")
	_, err := r.db.Exec(ctx, `
		INSERT INTO customers (id, login_type, created_at)
		VALUES ($1,$2,$3)
	`, customerID, loginType, time.Now())
	if err != nil {
		return "", err
	}
	return customerID, nil
}
