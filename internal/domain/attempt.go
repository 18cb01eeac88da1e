package domain

import (
	"time"

	"otp-delivery-service/pkg/xerrors"
)

// Identity is the login/signup subject: an email address or a phone number,
// exactly one of the two.
type Identity struct {
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

func (i Identity) Validate() error {
	if i.Email == "" && i.PhoneNumber == "" {
		return xerrors.ErrIdentifierRequired
	}
	if i.Email != "" && i.PhoneNumber != "" {
		return xerrors.ErrAmbiguousIdentifier
	}
	return nil
}

func (i Identity) IsEmail() bool { return i.Email != "" }

// Value returns whichever side of the identity is set.
func (i Identity) Value() string {
	if i.Email != "" {
		return i.Email
	}
	return i.PhoneNumber
}

// OTPAttempt is one row per identity. OTP is nil after consumption/reset.
// DateUpdated anchors the lockout window of the transition that last moved a
// counter.
type OTPAttempt struct {
	ID             string
	Identity       Identity
	OTP            *string
	OTPExpiresAt   time.Time
	OTPAttempts    int
	ResendAttempts int
	DateUpdated    time.Time
}

// HasActiveOTP reports whether a code is set, regardless of expiry.
func (a *OTPAttempt) HasActiveOTP() bool {
	return a.OTP != nil && *a.OTP != ""
}
