package service

import (
	"time"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/xerrors"
)

// The two counters share one shape: saturate, then lock, then reset once the
// window anchored to the previous transition's DateUpdated has elapsed.
// Locked is never stored; it is derived from (attempts, dateUpdated, now).

// lockedOut reports whether a counter at its limit is still inside the
// lockout window. Side-effect free; callable from tests.
func lockedOut(attempts, max int, dateUpdated time.Time, window time.Duration, now time.Time) bool {
	return attempts >= max && now.Before(dateUpdated.Add(window))
}

// nextResendAttempts computes the resend counter for one more send. At
// capacity it rejects inside the window, and silently restarts the cycle at
// zero once the window has elapsed.
func nextResendAttempts(a *domain.OTPAttempt, max int, window time.Duration, now time.Time) (int, error) {
	if a.ResendAttempts < max {
		return a.ResendAttempts + 1, nil
	}
	if now.Before(a.DateUpdated.Add(window)) {
		return 0, xerrors.NewPolicyError(xerrors.ErrTooManyOTPRequests, 0)
	}
	return 0, nil
}

// nextOTPAttempts computes the verification counter for one more attempt.
// Expiry is enforced before the counter is touched; the counter saturates at
// max rather than wrapping.
func nextOTPAttempts(a *domain.OTPAttempt, max int, window time.Duration, now time.Time) (int, error) {
	if !now.Before(a.OTPExpiresAt) {
		return 0, xerrors.ErrExpiredOTP
	}

	candidate := a.OTPAttempts
	if candidate < max {
		candidate++
	}
	if candidate >= max {
		if now.Before(a.DateUpdated.Add(window)) {
			return 0, xerrors.NewPolicyError(xerrors.ErrTooManyOTPAttempts, 0)
		}
		return 0, nil
	}
	return candidate, nil
}

// verifyAttemptsReset decides whether a resend should also clear the
// verification counter: it does once the lockout window from the prior
// update has elapsed.
func verifyAttemptsReset(a *domain.OTPAttempt, window time.Duration, now time.Time) int {
	if now.Before(a.DateUpdated.Add(window)) {
		return a.OTPAttempts
	}
	return 0
}
