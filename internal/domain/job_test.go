package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelRetryMapping(t *testing.T) {
	assert.Equal(t, ChannelSMSRetry, ChannelSMS.RetryChannel())
	assert.Equal(t, ChannelEmailRetry, ChannelEmail.RetryChannel())
	// retry stages map to themselves, there is no stage after retry
	assert.Equal(t, ChannelSMSRetry, ChannelSMSRetry.RetryChannel())
	assert.Equal(t, ChannelEmailRetry, ChannelEmailRetry.RetryChannel())
}

func TestChannelMedium(t *testing.T) {
	assert.Equal(t, ChannelSMS, ChannelSMSRetry.Medium())
	assert.Equal(t, ChannelEmail, ChannelEmailRetry.Medium())
	assert.Equal(t, ChannelSMS, ChannelSMS.Medium())
}

func TestIdentityValidate(t *testing.T) {
	assert.NoError(t, Identity{Email: "a@b.com"}.Validate())
	assert.NoError(t, Identity{PhoneNumber: "+254700000001"}.Validate())
	assert.Error(t, Identity{}.Validate())
	assert.Error(t, Identity{Email: "a@b.com", PhoneNumber: "+254700000001"}.Validate())
}

func TestIdentityValue(t *testing.T) {
	assert.Equal(t, "a@b.com", Identity{Email: "a@b.com"}.Value())
	assert.Equal(t, "+254700000001", Identity{PhoneNumber: "+254700000001"}.Value())
	assert.True(t, Identity{Email: "a@b.com"}.IsEmail())
	assert.False(t, Identity{PhoneNumber: "+254700000001"}.IsEmail())
}
