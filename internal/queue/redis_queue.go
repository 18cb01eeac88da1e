package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"otp-delivery-service/internal/domain"
)

const keyPrefix = "njq"

// popDue moves the oldest due member from pending to processing with a lease
// deadline, atomically.
var popDue = redis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, 1)
if #due == 0 then
	return false
end
redis.call('ZREM', KEYS[1], due[1])
redis.call('ZADD', KEYS[2], ARGV[2], due[1])
return due[1]
`)

// reclaimExpired returns lease-expired members to pending for redelivery.
var reclaimExpired = redis.NewScript(`
local expired = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1])
for _, m in ipairs(expired) do
	redis.call('ZREM', KEYS[1], m)
	redis.call('ZADD', KEYS[2], ARGV[1], m)
end
return #expired
`)

// RedisQueue keeps each channel as two sorted sets: pending, scored by
// ready-at time, and processing, scored by lease deadline. Backoff is a
// future ready-at score, never a sleeping worker.
type RedisQueue struct {
	client   redis.UniversalClient
	logger   *zap.Logger
	leaseTTL time.Duration
	poll     time.Duration
}

func NewRedisQueue(client redis.UniversalClient, logger *zap.Logger, leaseTTL, poll time.Duration) *RedisQueue {
	return &RedisQueue{client: client, logger: logger, leaseTTL: leaseTTL, poll: poll}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job *domain.NotificationJob, delay time.Duration) error {
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job: %w", err)
	}

	readyAt := time.Now().Add(delay).UnixMilli()
	err = q.client.ZAdd(ctx, q.pendingKey(job.Channel), redis.Z{
		Score:  float64(readyAt),
		Member: raw,
	}).Err()
	if err != nil {
		return fmt.Errorf("queue: enqueue %s: %w", job.Channel, err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, channel domain.Channel) (*Delivery, error) {
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	for {
		now := time.Now()
		res, err := popDue.Run(ctx, q.client,
			[]string{q.pendingKey(channel), q.processingKey(channel)},
			now.UnixMilli(), now.Add(q.leaseTTL).UnixMilli(),
		).Result()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("queue: dequeue %s: %w", channel, err)
		}
		if raw, ok := res.(string); ok && raw != "" {
			var job domain.NotificationJob
			if err := json.Unmarshal([]byte(raw), &job); err != nil {
				// poisoned member, drop it
				q.logger.Warn("dropping undecodable queue member",
					zap.String("channel", string(channel)), zap.Error(err))
				_ = q.client.ZRem(ctx, q.processingKey(channel), raw).Err()
				continue
			}
			job.AttemptsMade++
			return &Delivery{Job: &job, Raw: raw}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (q *RedisQueue) Ack(ctx context.Context, d *Delivery) error {
	return q.client.ZRem(ctx, q.processingKey(d.Job.Channel), d.Raw).Err()
}

func (q *RedisQueue) Nack(ctx context.Context, d *Delivery, delay time.Duration) error {
	raw, err := json.Marshal(d.Job)
	if err != nil {
		return fmt.Errorf("queue: marshal job: %w", err)
	}

	pipe := q.client.TxPipeline()
	pipe.ZRem(ctx, q.processingKey(d.Job.Channel), d.Raw)
	pipe.ZAdd(ctx, q.pendingKey(d.Job.Channel), redis.Z{
		Score:  float64(time.Now().Add(delay).UnixMilli()),
		Member: raw,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("queue: nack %s: %w", d.Job.Channel, err)
	}
	return nil
}

// StartReclaimer periodically returns lease-expired jobs to their pending
// sets. Run once per process.
func (q *RedisQueue) StartReclaimer(ctx context.Context, channels []domain.Channel) {
	ticker := time.NewTicker(q.leaseTTL / 2)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, ch := range channels {
					n, err := reclaimExpired.Run(ctx, q.client,
						[]string{q.processingKey(ch), q.pendingKey(ch)},
						time.Now().UnixMilli(),
					).Int()
					if err != nil && err != redis.Nil {
						q.logger.Warn("lease reclaim failed",
							zap.String("channel", string(ch)), zap.Error(err))
						continue
					}
					if n > 0 {
						q.logger.Info("reclaimed expired leases",
							zap.String("channel", string(ch)), zap.Int("count", n))
					}
				}
			}
		}
	}()
}

func (q *RedisQueue) pendingKey(ch domain.Channel) string {
	return fmt.Sprintf("%s:%s:pending", keyPrefix, ch)
}

func (q *RedisQueue) processingKey(ch domain.Channel) string {
	return fmt.Sprintf("%s:%s:processing", keyPrefix, ch)
}
