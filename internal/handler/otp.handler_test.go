package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
	"otp-delivery-service/internal/service"
)

// --- Stubs ---

type stubAttemptStore struct {
	record *domain.OTPAttempt
}

func (s *stubAttemptStore) GetByIdentity(_ context.Context, _ domain.Identity) (*domain.OTPAttempt, error) {
	return s.record, nil
}
func (s *stubAttemptStore) Create(_ context.Context, a *domain.OTPAttempt) error {
	s.record = a
	return nil
}
func (s *stubAttemptStore) Update(_ context.Context, a *domain.OTPAttempt) error {
	s.record = a
	return nil
}
func (s *stubAttemptStore) Reset(_ context.Context, _ string) error { return nil }

type stubCustomerStore struct{}

func (stubCustomerStore) Create(_ context.Context, _ string) (string, error) {
	return "cus_stub", nil
}

type stubEnqueuer struct{ dispatched int }

func (s *stubEnqueuer) Dispatch(_ context.Context, _ domain.Channel, _ domain.JobPayload) error {
	s.dispatched++
	return nil
}

func newTestHandler(attempts *stubAttemptStore) (*OTPHandler, *stubEnqueuer) {
	enq := &stubEnqueuer{}
	svc := service.NewOTPService(attempts, stubCustomerStore{}, enq, zap.NewNop(), config.Config{
		MaxOTPAttempts:    5,
		MaxResendAttempts: 5,
		OTPTTL:            5 * time.Minute,
		LockoutWindow:     10 * time.Minute,
		OTPTemplateRef:    "otp_login",
	})
	return NewOTPHandler(svc, zap.NewNop()), enq
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

// --- Tests ---

func TestRequestOTP_OK(t *testing.T) {
	h, enq := newTestHandler(&stubAttemptStore{})

	w := post(h.RequestOTP, `{"email":"user@example.com"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"attempts_left":5`)
	assert.Equal(t, 1, enq.dispatched)
}

func TestRequestOTP_BothIdentifiersIsBadRequest(t *testing.T) {
	h, _ := newTestHandler(&stubAttemptStore{})

	w := post(h.RequestOTP, `{"email":"user@example.com","phone_number":"+254700000001"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestOTP_LockedIsBadRequestWithAttemptsLeft(t *testing.T) {
	code := "123456"
	h, _ := newTestHandler(&stubAttemptStore{record: &domain.OTPAttempt{
		ID:             "att_1",
		Identity:       domain.Identity{Email: "user@example.com"},
		OTP:            &code,
		ResendAttempts: 5,
		DateUpdated:    time.Now(),
	}})

	w := post(h.RequestOTP, `{"email":"user@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"attempts_left":0`)
}

func TestVerifyOTP_ExpiredIsUnauthorized(t *testing.T) {
	code := "123456"
	h, _ := newTestHandler(&stubAttemptStore{record: &domain.OTPAttempt{
		ID:           "att_1",
		Identity:     domain.Identity{Email: "user@example.com"},
		OTP:          &code,
		OTPExpiresAt: time.Now().Add(-time.Second),
		DateUpdated:  time.Now(),
	}})

	w := post(h.VerifyOTP, `{"email":"user@example.com","otp":"123456"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVerifyOTP_ConsumedCodeIsNotFound(t *testing.T) {
	h, _ := newTestHandler(&stubAttemptStore{record: &domain.OTPAttempt{
		ID:       "att_1",
		Identity: domain.Identity{Email: "user@example.com"},
	}})

	w := post(h.VerifyOTP, `{"email":"user@example.com","otp":"123456"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyOTP_WrongCodeCarriesAttemptsLeft(t *testing.T) {
	code := "123456"
	h, _ := newTestHandler(&stubAttemptStore{record: &domain.OTPAttempt{
		ID:           "att_1",
		Identity:     domain.Identity{Email: "user@example.com"},
		OTP:          &code,
		OTPExpiresAt: time.Now().Add(time.Minute),
		DateUpdated:  time.Now(),
	}})

	w := post(h.VerifyOTP, `{"email":"user@example.com","otp":"999999"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"attempts_left":4`)
}

func TestVerifyOTP_Match(t *testing.T) {
	code := "123456"
	h, _ := newTestHandler(&stubAttemptStore{record: &domain.OTPAttempt{
		ID:           "att_1",
		Identity:     domain.Identity{Email: "user@example.com"},
		OTP:          &code,
		OTPExpiresAt: time.Now().Add(time.Minute),
		DateUpdated:  time.Now(),
	}})

	w := post(h.VerifyOTP, `{"email":"user@example.com","otp":"123456"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"attempt_id":"att_1"`)
	assert.Contains(t, w.Body.String(), `"existing_user":false`)
}
