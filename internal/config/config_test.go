package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"otp-delivery-service/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, 5, cfg.MaxOTPAttempts)
	assert.Equal(t, 5, cfg.MaxResendAttempts)
	assert.Equal(t, 5*time.Minute, cfg.OTPTTL)
	assert.Equal(t, 10*time.Minute, cfg.LockoutWindow)
	assert.Equal(t, []string{"dovesoft", "infobip"}, cfg.SMSProviderChain)
	assert.NotZero(t, cfg.Channels[domain.ChannelSMSRetry].MaxAttempts)
}

func TestChainForFiltersDisabledProviders(t *testing.T) {
	t.Setenv("PROVIDER_INFOBIP_ENABLED", "false")
	cfg := Load()

	assert.Equal(t, []string{"dovesoft"}, cfg.ChainFor(domain.ChannelSMS))
	assert.Equal(t, []string{"dovesoft", "netcore", "smtp"}, cfg.ChainFor(domain.ChannelEmail))
	// retry channels resolve through their medium
	assert.Equal(t, []string{"dovesoft"}, cfg.ChainFor(domain.ChannelSMSRetry))
}

func TestChainForAllDisabled(t *testing.T) {
	t.Setenv("PROVIDER_DOVESOFT_ENABLED", "false")
	t.Setenv("PROVIDER_INFOBIP_ENABLED", "false")
	cfg := Load()

	assert.Empty(t, cfg.ChainFor(domain.ChannelSMS))
}

func TestChannelOverrides(t *testing.T) {
	t.Setenv("SMS_MAX_ATTEMPTS", "1")
	t.Setenv("SMS_BACKOFF", "45s")
	cfg := Load()

	assert.Equal(t, 1, cfg.Channels[domain.ChannelSMS].MaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.Channels[domain.ChannelSMS].Backoff)
}

func TestParseMockCodes(t *testing.T) {
	t.Setenv("OTP_MOCK_CODES", "+254700000001:123456, qa@example.com:000000")
	cfg := Load()

	assert.Equal(t, "123456", cfg.MockOTPCodes["+254700000001"])
	assert.Equal(t, "000000", cfg.MockOTPCodes["qa@example.com"])
	assert.Len(t, cfg.MockOTPCodes, 2)
}

func TestSplitListNormalizes(t *testing.T) {
	assert.Equal(t, []string{"dovesoft", "infobip"}, splitList(" DoveSoft , Infobip ,"))
	assert.Empty(t, splitList(""))
}
