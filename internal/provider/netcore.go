package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
)

type netcoreResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NetcoreEmail is the last HTTP vendor in the email fallback chain.
type NetcoreEmail struct {
	cfg    config.NetcoreConfig
	client *http.Client
}

func NewNetcoreEmail(cfg config.NetcoreConfig, timeout time.Duration) *NetcoreEmail {
	return &NetcoreEmail{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *NetcoreEmail) Name() string           { return "netcore" }
func (p *NetcoreEmail) Medium() domain.Channel { return domain.ChannelEmail }

func (p *NetcoreEmail) Send(ctx context.Context, msg *Message) (*Response, error) {
	from := msg.SenderID
	if from == "" {
		from = p.cfg.FromEmail
	}

	payload := map[string]interface{}{
		"from":    map[string]string{"email": from},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "html", "value": msg.Body},
		},
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": msg.Recipient}}},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("netcore: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v5.1/mail/send", bytes.NewBuffer(raw))
	if err != nil {
		return nil, fmt.Errorf("netcore: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_key", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("netcore: http error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func (p *NetcoreEmail) IsSuccess(resp *Response) bool {
	if resp == nil {
		return false
	}
	var parsed netcoreResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return false
	}
	return strings.EqualFold(parsed.Status, "success")
}

func (p *NetcoreEmail) FailureReason(resp *Response) string {
	if resp == nil {
		return "no response"
	}
	var parsed netcoreResponse
	if err := json.Unmarshal(resp.Body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(resp.Body, 200))
}
