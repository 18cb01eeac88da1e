package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
)

func TestDoveSoftSuccessPredicate(t *testing.T) {
	p := NewDoveSoftSMS(config.DoveSoftConfig{}, time.Second)

	assert.True(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"status":"success"}`)}))
	assert.True(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"status":"SUCCESS"}`)}))
	assert.False(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"status":"error","reason":"invalid sender"}`)}))
	assert.False(t, p.IsSuccess(&Response{StatusCode: 500, Body: []byte(`internal error`)}))
	assert.False(t, p.IsSuccess(nil))

	assert.Equal(t, "invalid sender",
		p.FailureReason(&Response{StatusCode: 200, Body: []byte(`{"status":"error","reason":"invalid sender"}`)}))
}

func TestInfobipSuccessPredicate(t *testing.T) {
	p := NewInfobipSMS(config.InfobipConfig{}, time.Second)

	pending := &Response{StatusCode: 200, Body: []byte(`{"messages":[{"status":{"groupId":1,"name":"PENDING_ACCEPTED"}}]}`)}
	delivered := &Response{StatusCode: 200, Body: []byte(`{"messages":[{"status":{"groupId":3,"name":"DELIVERED_TO_HANDSET"}}]}`)}
	rejected := &Response{StatusCode: 200, Body: []byte(`{"messages":[{"status":{"groupId":5,"name":"REJECTED_DESTINATION","description":"invalid destination"}}]}`)}

	assert.True(t, p.IsSuccess(pending))
	assert.True(t, p.IsSuccess(delivered))
	assert.False(t, p.IsSuccess(rejected))
	assert.False(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"messages":[]}`)}))
	assert.False(t, p.IsSuccess(&Response{StatusCode: 401, Body: []byte(`unauthorized`)}))

	assert.Contains(t, p.FailureReason(rejected), "REJECTED_DESTINATION")
	assert.Contains(t, p.FailureReason(rejected), "group 5")
}

func TestNetcoreSuccessPredicate(t *testing.T) {
	p := NewNetcoreEmail(config.NetcoreConfig{}, time.Second)

	assert.True(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"status":"success","message":"OK"}`)}))
	assert.False(t, p.IsSuccess(&Response{StatusCode: 200, Body: []byte(`{"status":"error","message":"bad api key"}`)}))
	assert.Equal(t, "bad api key",
		p.FailureReason(&Response{StatusCode: 200, Body: []byte(`{"status":"error","message":"bad api key"}`)}))
}

func TestRegistryResolvesByMediumAndName(t *testing.T) {
	sms := NewDoveSoftSMS(config.DoveSoftConfig{}, time.Second)
	email := NewDoveSoftEmail(config.DoveSoftConfig{}, time.Second)
	r := NewRegistry(sms, email)

	got, err := r.Get(domain.ChannelSMS, "dovesoft")
	assert.NoError(t, err)
	assert.Same(t, Provider(sms), got)

	got, err = r.Get(domain.ChannelEmail, "DoveSoft")
	assert.NoError(t, err)
	assert.Same(t, Provider(email), got)

	_, err = r.Get(domain.ChannelSMS, "netcore")
	assert.Error(t, err)
}
