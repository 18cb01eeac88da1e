package provider

import (
	"context"
	"strings"

	"otp-delivery-service/internal/domain"
	"otp-delivery-service/pkg/xerrors"
)

// Message is the rendered, provider-agnostic outbound payload.
type Message struct {
	Recipient string
	Body      string
	Subject   string
	SenderID  string
}

// Response is the raw vendor reply. Vendors share no schema, so
// classification is delegated back to the provider that produced it.
type Response struct {
	StatusCode int
	Body       []byte
}

// Provider is one external SMS/email vendor. Send is a synchronous black-box
// call; IsSuccess and FailureReason reproduce that vendor's own definition of
// a delivered message.
type Provider interface {
	Name() string
	Medium() domain.Channel
	Send(ctx context.Context, msg *Message) (*Response, error)
	IsSuccess(resp *Response) bool
	FailureReason(resp *Response) string
}

// Registry resolves providers by medium and name.
type Registry struct {
	providers map[string]Provider // key: medium + ":" + name
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.providers[key(p.Medium(), p.Name())] = p
	}
	return r
}

func (r *Registry) Get(medium domain.Channel, name string) (Provider, error) {
	p, ok := r.providers[key(medium, strings.ToLower(name))]
	if !ok {
		return nil, xerrors.ErrNoProviderInChain
	}
	return p, nil
}

func key(medium domain.Channel, name string) string {
	return string(medium) + ":" + strings.ToLower(name)
}
