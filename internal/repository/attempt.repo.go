package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/id"
)

type AttemptRepo struct {
	db *pgxpool.Pool
}

func NewAttemptRepo(db *pgxpool.Pool) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// GetByIdentity returns the attempt row for an email or phone number, or nil
// when the identity has never requested a code.
func (r *AttemptRepo) GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.OTPAttempt, error) {
	column := "phone_number"
	if identity.IsEmail() {
		column = "email"
	}

	var a domain.OTPAttempt
	var email, phone *string
	err := r.db.QueryRow(ctx, `
		SELECT id, email, phone_number, otp, otp_expires_at, otp_attempts, resend_attempts, date_updated
		FROM otp_attempts
		WHERE `+column+`=$1
		LIMIT 1
	`, identity.Value()).Scan(&a.ID, &email, &phone, &a.OTP, &a.OTPExpiresAt, &a.OTPAttempts, &a.ResendAttempts, &a.DateUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if email != nil {
		a.Identity.Email = *email
	}
	if phone != nil {
		a.Identity.PhoneNumber = *phone
	}
	return &a, nil
}

func (r *AttemptRepo) Create(ctx context.Context, a *domain.OTPAttempt) error {
	if a.ID == "" {
		a.ID = id.New("att")
	}
	var email, phone *string
	if a.Identity.Email != "" {
		email = &a.Identity.Email
	}
	if a.Identity.PhoneNumber != "" {
		phone = &a.Identity.PhoneNumber
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO otp_attempts (id, email, phone_number, otp, otp_expires_at, otp_attempts, resend_attempts, date_updated)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, a.ID, email, phone, a.OTP, a.OTPExpiresAt, a.OTPAttempts, a.ResendAttempts, a.DateUpdated)
	return err
}

func (r *AttemptRepo) Update(ctx context.Context, a *domain.OTPAttempt) error {
	_, err := r.db.Exec(ctx, `
		UPDATE otp_attempts
		SET otp=$2, otp_expires_at=$3, otp_attempts=$4, resend_attempts=$5, date_updated=$6
		WHERE id=$1
	`, a.ID, a.OTP, a.OTPExpiresAt, a.OTPAttempts, a.ResendAttempts, a.DateUpdated)
	return err
}

// Reset clears the active code and zeroes both counters. Idempotent.
func (r *AttemptRepo) Reset(ctx context.Context, attemptID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE otp_attempts
		SET otp=NULL, otp_attempts=0, resend_attempts=0, date_updated=$2
		WHERE id=$1
	`, attemptID, time.Now())
	return err
}
