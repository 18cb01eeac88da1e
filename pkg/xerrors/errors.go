package xerrors

import (
	"errors"
	"fmt"
)

// Generic
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input provided")
)

// OTP lifecycle
var (
	ErrOTPNotFound         = errors.New("no active otp; request a new one")
	ErrInvalidOTP          = errors.New("invalid otp")
	ErrExpiredOTP          = errors.New("otp expired")
	ErrTooManyOTPRequests  = errors.New("too many otp requests")
	ErrTooManyOTPAttempts  = errors.New("too many incorrect otp attempts")
	ErrIdentifierRequired  = errors.New("email or phone number required")
	ErrAmbiguousIdentifier = errors.New("provide either email or phone number, not both")
)

// Delivery
var (
	ErrProviderFailure    = errors.New("provider delivery failure")
	ErrProviderDisabled   = errors.New("provider disabled")
	ErrNoProviderInChain  = errors.New("no provider left in fallback chain")
	ErrUnsupportedChannel = errors.New("unsupported channel")
	ErrTemplateNotFound   = errors.New("template not found")
)

// PolicyError is a policy rejection carrying the attempt budget that remains
// for the caller. AttemptsLeft is -1 when the rejection has no counter
// attached (e.g. expiry).
type PolicyError struct {
	Err          error
	AttemptsLeft int
}

func (e *PolicyError) Error() string {
	if e.AttemptsLeft >= 0 {
		return fmt.Sprintf("%v (attempts left: %d)", e.Err, e.AttemptsLeft)
	}
	return e.Err.Error()
}

func (e *PolicyError) Unwrap() error { return e.Err }

// NewPolicyError wraps a sentinel with an attempts-left budget.
func NewPolicyError(err error, attemptsLeft int) *PolicyError {
	return &PolicyError{Err: err, AttemptsLeft: attemptsLeft}
}

// AttemptsLeft extracts the remaining budget from a policy rejection, or -1.
func AttemptsLeft(err error) int {
	var pe *PolicyError
	if errors.As(err, &pe) {
		return pe.AttemptsLeft
	}
	return -1
}
