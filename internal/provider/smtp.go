package provider

import (
	"context"
	"fmt"
	"net/http"

	"gopkg.in/gomail.v2"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
)

// SMTPEmail is the in-house relay at the end of the email fallback chain.
// Unlike the HTTP vendors it has no response body to classify: a completed
// SMTP dialogue is the success predicate.
type SMTPEmail struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmail(cfg config.SMTPConfig) *SMTPEmail {
	return &SMTPEmail{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (p *SMTPEmail) Name() string           { return "smtp" }
func (p *SMTPEmail) Medium() domain.Channel { return domain.ChannelEmail }

func (p *SMTPEmail) Send(ctx context.Context, msg *Message) (*Response, error) {
	from := msg.SenderID
	if from == "" {
		from = p.cfg.FromEmail
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", msg.Recipient)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)

	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("smtp: send: %w", err)
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("smtp: send: %w", ctx.Err())
	}
	return &Response{StatusCode: http.StatusOK, Body: []byte("sent")}, nil
}

func (p *SMTPEmail) IsSuccess(resp *Response) bool { return resp != nil }

func (p *SMTPEmail) FailureReason(resp *Response) string {
	return "smtp dialogue did not complete"
}
