package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/xerrors"
)

const loginPurpose = "login"

// AttemptStore is the identity/attempts collaborator.
type AttemptStore interface {
	GetByIdentity(ctx context.Context, identity domain.Identity) (*domain.OTPAttempt, error)
	Create(ctx context.Context, a *domain.OTPAttempt) error
	Update(ctx context.Context, a *domain.OTPAttempt) error
	Reset(ctx context.Context, attemptID string) error
}

// CustomerStore provisions customer records on signup.
type CustomerStore interface {
	Create(ctx context.Context, loginType string) (string, error)
}

// Enqueuer hands rendered-template inputs to the delivery pipeline.
type Enqueuer interface {
	Dispatch(ctx context.Context, channel domain.Channel, payload domain.JobPayload) error
}

type VerifyInput struct {
	Identity   domain.Identity
	OTP        string
	CustomerID string
}

type VerifyResult struct {
	AttemptID    string
	CustomerID   string
	ExistingUser bool
}

// OTPService owns the OTP lifecycle: generation, resend throttling,
// verification and lockout. Delivery is fire-and-forget through the
// dispatcher; policy rejections surface synchronously.
type OTPService struct {
	attempts   AttemptStore
	customers  CustomerStore
	dispatcher Enqueuer
	logger     *zap.Logger

	maxOTPAttempts    int
	maxResendAttempts int
	ttl               time.Duration
	lockoutWindow     time.Duration
	templateRef       string
	mockCodes         map[string]string

	now func() time.Time
}

func NewOTPService(
	attempts AttemptStore,
	customers CustomerStore,
	dispatcher Enqueuer,
	logger *zap.Logger,
	cfg config.Config,
) *OTPService {
	return &OTPService{
		attempts:          attempts,
		customers:         customers,
		dispatcher:        dispatcher,
		logger:            logger,
		maxOTPAttempts:    cfg.MaxOTPAttempts,
		maxResendAttempts: cfg.MaxResendAttempts,
		ttl:               cfg.OTPTTL,
		lockoutWindow:     cfg.LockoutWindow,
		templateRef:       cfg.OTPTemplateRef,
		mockCodes:         cfg.MockOTPCodes,
		now:               time.Now,
	}
}

// RequestOTP issues a code for the identity and enqueues its delivery.
// Returns how many resends remain before the lockout window applies.
func (s *OTPService) RequestOTP(ctx context.Context, identity domain.Identity) (int, error) {
	if err := identity.Validate(); err != nil {
		return 0, err
	}

	rec, err := s.attempts.GetByIdentity(ctx, identity)
	if err != nil {
		return 0, fmt.Errorf("get attempts: %w", err)
	}

	code, mocked := s.mockCodes[identity.Value()]
	if !mocked {
		code = randomCode()
	}

	now := s.now()
	var resendAttempts int
	if rec == nil {
		rec = &domain.OTPAttempt{
			Identity:       identity,
			OTP:            &code,
			OTPExpiresAt:   now.Add(s.ttl),
			OTPAttempts:    0,
			ResendAttempts: 0,
			DateUpdated:    now,
		}
		if err := s.attempts.Create(ctx, rec); err != nil {
			return 0, fmt.Errorf("create attempts: %w", err)
		}
	} else {
		resendAttempts, err = nextResendAttempts(rec, s.maxResendAttempts, s.lockoutWindow, now)
		if err != nil {
			return 0, err
		}
		rec.OTPAttempts = verifyAttemptsReset(rec, s.lockoutWindow, now)
		rec.OTP = &code
		rec.OTPExpiresAt = now.Add(s.ttl)
		rec.ResendAttempts = resendAttempts
		rec.DateUpdated = now
		if err := s.attempts.Update(ctx, rec); err != nil {
			return 0, fmt.Errorf("update attempts: %w", err)
		}
	}

	if mocked {
		s.logger.Info("mock otp issued, delivery skipped",
			zap.String("attempt_id", rec.ID),
			zap.String("identity", identity.Value()))
		return s.maxResendAttempts - resendAttempts, nil
	}

	payload := domain.JobPayload{
		Recipient:   identity.Value(),
		TemplateRef: s.templateRef,
		Fields: map[string]string{
			"OTP":           code,
			"Purpose":       formatPurpose(loginPurpose),
			"ExpiryMinutes": strconv.Itoa(int(s.ttl.Minutes())),
		},
	}
	channel := domain.ChannelSMS
	if identity.IsEmail() {
		channel = domain.ChannelEmail
	}
	if err := s.dispatcher.Dispatch(ctx, channel, payload); err != nil {
		// delivery is async relative to issuance; the code is already stored
		s.logger.Error("otp delivery enqueue failed",
			zap.String("attempt_id", rec.ID),
			zap.String("channel", string(channel)),
			zap.Error(err))
	}

	s.logger.Info("otp issued",
		zap.String("attempt_id", rec.ID),
		zap.String("channel", string(channel)),
		zap.Int("resend_attempts", resendAttempts))
	return s.maxResendAttempts - resendAttempts, nil
}

// VerifyOTP checks a submitted code. Success does not clear counters; the
// caller invokes ResetAllAttempts after the login fully completes.
func (s *OTPService) VerifyOTP(ctx context.Context, in VerifyInput) (*VerifyResult, error) {
	if err := in.Identity.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.attempts.GetByIdentity(ctx, in.Identity)
	if err != nil {
		return nil, fmt.Errorf("get attempts: %w", err)
	}
	if rec == nil || !rec.HasActiveOTP() {
		return nil, xerrors.ErrOTPNotFound
	}

	now := s.now()
	candidate, err := nextOTPAttempts(rec, s.maxOTPAttempts, s.lockoutWindow, now)
	if err != nil {
		return nil, err
	}

	if in.OTP != *rec.OTP {
		rec.OTPAttempts = candidate
		rec.DateUpdated = now
		if err := s.attempts.Update(ctx, rec); err != nil {
			return nil, fmt.Errorf("update attempts: %w", err)
		}
		return nil, xerrors.NewPolicyError(xerrors.ErrInvalidOTP, s.maxOTPAttempts-candidate)
	}

	customerID := in.CustomerID
	existing := customerID != ""
	if !existing {
		loginType := "phone"
		if in.Identity.IsEmail() {
			loginType = "email"
		}
		customerID, err = s.customers.Create(ctx, loginType)
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
	}

	s.logger.Info("otp verified",
		zap.String("attempt_id", rec.ID),
		zap.Bool("existing_user", existing))
	return &VerifyResult{
		AttemptID:    rec.ID,
		CustomerID:   customerID,
		ExistingUser: existing,
	}, nil
}

// ResetAllAttempts clears the active code and both counters. Invoked by the
// caller after tokens are issued. Idempotent.
func (s *OTPService) ResetAllAttempts(ctx context.Context, attemptID string) error {
	if attemptID == "" {
		return xerrors.ErrInvalidInput
	}
	return s.attempts.Reset(ctx, attemptID)
}
