package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
)

// Infobip classifies outcomes by status group, not by a flat status string.
// Group 1 is PENDING (accepted for delivery), group 3 is DELIVERED; anything
// else is a rejection or an undeliverable destination.
var infobipSuccessGroups = map[int]bool{1: true, 3: true}

type infobipResponse struct {
	Messages []struct {
		Status struct {
			GroupID     int    `json:"groupId"`
			GroupName   string `json:"groupName"`
			Name        string `json:"name"`
			Description string `json:"description"`
		} `json:"status"`
	} `json:"messages"`
}

// --- SMS ---

type InfobipSMS struct {
	cfg    config.InfobipConfig
	client *http.Client
}

func NewInfobipSMS(cfg config.InfobipConfig, timeout time.Duration) *InfobipSMS {
	return &InfobipSMS{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *InfobipSMS) Name() string           { return "infobip" }
func (p *InfobipSMS) Medium() domain.Channel { return domain.ChannelSMS }

func (p *InfobipSMS) Send(ctx context.Context, msg *Message) (*Response, error) {
	sender := msg.SenderID
	if sender == "" {
		sender = p.cfg.SMSSender
	}

	payload := map[string]interface{}{
		"messages": []map[string]interface{}{
			{
				"from": sender,
				"destinations": []map[string]string{
					{"to": msg.Recipient},
				},
				"text": msg.Body,
			},
		},
	}
	return infobipPost(ctx, p.client, p.cfg, "/sms/2/text/advanced", payload)
}

func (p *InfobipSMS) IsSuccess(resp *Response) bool       { return infobipOK(resp) }
func (p *InfobipSMS) FailureReason(resp *Response) string { return infobipReason(resp) }

// --- Email ---

type InfobipEmail struct {
	cfg    config.InfobipConfig
	client *http.Client
}

func NewInfobipEmail(cfg config.InfobipConfig, timeout time.Duration) *InfobipEmail {
	return &InfobipEmail{cfg: cfg, client: &http.Client{Timeout: timeout}}
}

func (p *InfobipEmail) Name() string           { return "infobip" }
func (p *InfobipEmail) Medium() domain.Channel { return domain.ChannelEmail }

func (p *InfobipEmail) Send(ctx context.Context, msg *Message) (*Response, error) {
	from := msg.SenderID
	if from == "" {
		from = p.cfg.FromEmail
	}

	payload := map[string]interface{}{
		"from":    from,
		"to":      msg.Recipient,
		"subject": msg.Subject,
		"html":    msg.Body,
	}
	return infobipPost(ctx, p.client, p.cfg, "/email/3/send", payload)
}

func (p *InfobipEmail) IsSuccess(resp *Response) bool       { return infobipOK(resp) }
func (p *InfobipEmail) FailureReason(resp *Response) string { return infobipReason(resp) }

func infobipPost(ctx context.Context, client *http.Client, cfg config.InfobipConfig, path string, payload any) (*Response, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("infobip: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+path, bytes.NewBuffer(raw))
	if err != nil {
		return nil, fmt.Errorf("infobip: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "App "+cfg.APIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("infobip: http error: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func infobipOK(resp *Response) bool {
	if resp == nil {
		return false
	}
	var parsed infobipResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil || len(parsed.Messages) == 0 {
		return false
	}
	return infobipSuccessGroups[parsed.Messages[0].Status.GroupID]
}

func infobipReason(resp *Response) string {
	if resp == nil {
		return "no response"
	}
	var parsed infobipResponse
	if err := json.Unmarshal(resp.Body, &parsed); err == nil && len(parsed.Messages) > 0 {
		st := parsed.Messages[0].Status
		return fmt.Sprintf("%s (group %d): %s", st.Name, st.GroupID, st.Description)
	}
	return fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(resp.Body, 200))
}
