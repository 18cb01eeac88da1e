package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"otp-delivery-service/internal/config"
	"otp-delivery-service/internal/domain"
	"otp-delivery-service/internal/provider"
	"otp-delivery-service/internal/queue"
	"otp-delivery-service/pkg/template"
)

// TemplateStore fetches CMS-managed message templates by reference.
type TemplateStore interface {
	GetByRef(ctx context.Context, refNo string) (*domain.Template, error)
}

// Recorder is the auditing side of the pipeline.
type Recorder interface {
	Record(eventType, remarks, sourceOrigin, recipient string)
}

// Dispatcher runs one worker pool per channel. Workers render the template,
// call the provider, classify its reply and route failures: same-channel
// redelivery while the channel's attempt budget lasts, then fallback onto the
// retry channel with the next provider in the chain, then terminal drop.
type Dispatcher struct {
	q         queue.Queue
	registry  *provider.Registry
	templates TemplateStore
	auditor   Recorder
	logger    *zap.Logger

	channels    map[domain.Channel]config.ChannelConfig
	chains      map[domain.Channel][]string // medium -> enabled provider order
	sendTimeout time.Duration

	wg sync.WaitGroup
}

func NewDispatcher(
	q queue.Queue,
	registry *provider.Registry,
	templates TemplateStore,
	auditor Recorder,
	logger *zap.Logger,
	cfg config.Config,
) *Dispatcher {
	return &Dispatcher{
		q:         q,
		registry:  registry,
		templates: templates,
		auditor:   auditor,
		logger:    logger,
		channels:  cfg.Channels,
		chains: map[domain.Channel][]string{
			domain.ChannelSMS:   cfg.ChainFor(domain.ChannelSMS),
			domain.ChannelEmail: cfg.ChainFor(domain.ChannelEmail),
		},
		sendTimeout: cfg.ProviderTimeout,
	}
}

// Dispatch is the enqueue contract. When every provider of the channel's
// medium is feature-flagged off, it short-circuits as a no-op success and
// nothing is queued.
func (d *Dispatcher) Dispatch(ctx context.Context, channel domain.Channel, payload domain.JobPayload) error {
	if len(d.chains[channel.Medium()]) == 0 {
		d.logger.Info("all providers disabled, skipping delivery",
			zap.String("channel", string(channel)),
			zap.String("recipient", payload.Recipient))
		return nil
	}

	job := &domain.NotificationJob{
		ID:      uuid.New().String(),
		Channel: channel,
		Payload: payload,
	}
	return d.q.Enqueue(ctx, job, 0)
}

// Start spawns the per-channel worker pools. Blocks only until the pools are
// launched; Wait blocks until ctx cancellation has drained them.
func (d *Dispatcher) Start(ctx context.Context) {
	for channel, cc := range d.channels {
		for i := 0; i < cc.Workers; i++ {
			d.wg.Add(1)
			go d.run(ctx, channel)
		}
	}
	d.logger.Info("dispatcher started", zap.Int("channels", len(d.channels)))
}

func (d *Dispatcher) Wait() { d.wg.Wait() }

func (d *Dispatcher) run(ctx context.Context, channel domain.Channel) {
	defer d.wg.Done()
	for {
		delivery, err := d.q.Dequeue(ctx, channel)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.logger.Error("dequeue failed", zap.String("channel", string(channel)), zap.Error(err))
			continue
		}
		d.handle(ctx, delivery)
	}
}

func (d *Dispatcher) handle(ctx context.Context, delivery *queue.Delivery) {
	job := delivery.Job
	medium := job.Channel.Medium()
	chain := d.chains[medium]

	if len(chain) == 0 {
		// flags flipped after the job was queued
		_ = d.q.Ack(ctx, delivery)
		return
	}

	if job.Payload.Provider == "" {
		job.Payload.Provider = chain[0]
	}

	reason, ok := d.attempt(ctx, job)
	if ok {
		if err := d.q.Ack(ctx, delivery); err != nil {
			d.logger.Warn("ack failed", zap.String("job_id", job.ID), zap.Error(err))
		}
		d.logger.Info("delivered",
			zap.String("job_id", job.ID),
			zap.String("channel", string(job.Channel)),
			zap.String("provider", job.Payload.Provider),
			zap.Int("attempts", job.AttemptsMade))
		return
	}

	d.auditor.Record(failureEvent(medium), reason, job.Payload.Provider, job.Payload.Recipient)

	cc := d.channels[job.Channel]
	if job.AttemptsMade < cc.MaxAttempts {
		if err := d.q.Nack(ctx, delivery, cc.Backoff); err != nil {
			d.logger.Error("nack failed", zap.String("job_id", job.ID), zap.Error(err))
		}
		return
	}

	// channel budget exhausted: escalate to the next provider in the chain
	next := nextInChain(chain, job.Payload.Provider)
	if err := d.q.Ack(ctx, delivery); err != nil {
		d.logger.Warn("ack failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	if next == "" {
		d.logger.Warn("delivery terminally failed, providers exhausted",
			zap.String("job_id", job.ID),
			zap.String("channel", string(job.Channel)),
			zap.String("recipient", job.Payload.Recipient),
			zap.String("last_provider", job.Payload.Provider))
		return
	}

	retry := &domain.NotificationJob{
		ID:      job.ID,
		Channel: job.Channel.RetryChannel(),
		Payload: job.Payload,
	}
	retry.Payload.Provider = next
	if err := d.q.Enqueue(ctx, retry, 0); err != nil {
		d.logger.Error("fallback enqueue failed", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	d.logger.Info("falling back to next provider",
		zap.String("job_id", job.ID),
		zap.String("retry_channel", string(retry.Channel)),
		zap.String("provider", next))
}

// attempt renders and sends once. Returns ("", true) on provider-confirmed
// success, or a failure reason.
func (d *Dispatcher) attempt(ctx context.Context, job *domain.NotificationJob) (string, bool) {
	medium := job.Channel.Medium()

	prov, err := d.registry.Get(medium, job.Payload.Provider)
	if err != nil {
		return "unknown provider " + job.Payload.Provider, false
	}

	tmpl, err := d.templates.GetByRef(ctx, job.Payload.TemplateRef)
	if err != nil {
		return "template fetch: " + err.Error(), false
	}

	body, err := template.Render(tmpl.RefNo, tmpl.Body, job.Payload.Fields)
	if err != nil {
		return "template render: " + err.Error(), false
	}

	subject := job.Payload.Subject
	if subject == "" {
		subject = tmpl.Subject
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	resp, err := prov.Send(sendCtx, &provider.Message{
		Recipient: job.Payload.Recipient,
		Body:      body,
		Subject:   subject,
		SenderID:  tmpl.SenderID,
	})
	if err != nil {
		// timeouts and transport errors classify as provider failure
		return err.Error(), false
	}
	if !prov.IsSuccess(resp) {
		return prov.FailureReason(resp), false
	}
	return "", true
}

func failureEvent(medium domain.Channel) string {
	if medium == domain.ChannelSMS {
		return domain.EventSMSDeliveryFailed
	}
	return domain.EventEmailDeliveryFailed
}

// nextInChain returns the provider after current, or "" when current is last
// or not in the chain.
func nextInChain(chain []string, current string) string {
	for i, name := range chain {
		if name == current && i+1 < len(chain) {
			return chain[i+1]
		}
	}
	return ""
}
