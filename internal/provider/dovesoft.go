package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
)

// DoveSoft reports delivery acceptance as a literal status string.
const doveSoftSuccessStatus = "success"

type doveSoftResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// --- SMS ---

type DoveSoftSMS struct {
	cfg    config.DoveSoftConfig
	client *http.Client
}

func NewDoveSoftSMS(cfg config.DoveSoftConfig, timeout time.Duration) *DoveSoftSMS {
	return &DoveSoftSMS{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *DoveSoftSMS) Name() string           { return "dovesoft" }
func (p *DoveSoftSMS) Medium() domain.Channel { return domain.ChannelSMS }

func (p *DoveSoftSMS) Send(ctx context.Context, msg *Message) (*Response, error) {
	sender := msg.SenderID
	if sender == "" {
		sender = p.cfg.SenderID
	}

	form := url.Values{}
	form.Set("userid", p.cfg.UserID)
	form.Set("password", p.cfg.Password)
	form.Set("senderid", sender)
	form.Set("sendMethod", "quick")
	form.Set("msgType", "text")
	form.Set("msg", msg.Body)
	form.Set("mobile", msg.Recipient)
	form.Set("duplicatecheck", "true")
	form.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.SMSBaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("dovesoft sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if p.cfg.APIKey != "" {
		req.Header.Set("apikey", p.cfg.APIKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dovesoft sms: http error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (p *DoveSoftSMS) IsSuccess(resp *Response) bool     { return doveSoftOK(resp) }
func (p *DoveSoftSMS) FailureReason(resp *Response) string { return doveSoftReason(resp) }

// --- Email ---

type DoveSoftEmail struct {
	cfg    config.DoveSoftConfig
	client *http.Client
}

func NewDoveSoftEmail(cfg config.DoveSoftConfig, timeout time.Duration) *DoveSoftEmail {
	return &DoveSoftEmail{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *DoveSoftEmail) Name() string           { return "dovesoft" }
func (p *DoveSoftEmail) Medium() domain.Channel { return domain.ChannelEmail }

func (p *DoveSoftEmail) Send(ctx context.Context, msg *Message) (*Response, error) {
	from := msg.SenderID
	if from == "" {
		from = p.cfg.FromEmail
	}

	payload := map[string]interface{}{
		"from":    from,
		"to":      []string{msg.Recipient},
		"subject": msg.Subject,
		"content": msg.Body,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("dovesoft email: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.EmailBaseURL, bytes.NewBuffer(raw))
	if err != nil {
		return nil, fmt.Errorf("dovesoft email: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dovesoft email: http error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (p *DoveSoftEmail) IsSuccess(resp *Response) bool     { return doveSoftOK(resp) }
func (p *DoveSoftEmail) FailureReason(resp *Response) string { return doveSoftReason(resp) }

func doveSoftOK(resp *Response) bool {
	if resp == nil {
		return false
	}
	var parsed doveSoftResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return false
	}
	return strings.EqualFold(parsed.Status, doveSoftSuccessStatus)
}

func doveSoftReason(resp *Response) string {
	if resp == nil {
		return "no response"
	}
	var parsed doveSoftResponse
	if err := json.Unmarshal(resp.Body, &parsed); err == nil && parsed.Reason != "" {
		return parsed.Reason
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(resp.Body, 200))
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
