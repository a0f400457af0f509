package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// TicketEventBus publishes and consumes ticket lifecycle events.
type TicketEventBus interface {
	ticket.EventPublisher
	SubscribeLifecycle(ctx context.Context, handler func(event ticket.LifecycleEvent)) error
}

// RedisTicketEventBus implements TicketEventBus using Redis Pub/Sub.
type RedisTicketEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

// NewRedisTicketEventBus creates a new Redis-based ticket event bus.
func NewRedisTicketEventBus(client *redis.Client, logger logger.Interface) *RedisTicketEventBus {
	return &RedisTicketEventBus{
		client:  client,
		channel: constants.TicketLifecycleChannel,
		logger:  logger,
	}
}

// PublishLifecycle publishes a lifecycle event for other bot processes.
func (b *RedisTicketEventBus) PublishLifecycle(ctx context.Context, event ticket.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lifecycle event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish lifecycle event",
			"ticket_id", event.TicketID,
			"action", event.Action,
			"error", err,
		)
		return fmt.Errorf("failed to publish lifecycle event: %w", err)
	}

	b.logger.Debugw("lifecycle event published to Redis",
		"ticket_id", event.TicketID,
		"action", event.Action,
	)
	return nil
}

// SubscribeLifecycle delivers lifecycle events to handler until ctx ends.
func (b *RedisTicketEventBus) SubscribeLifecycle(ctx context.Context, handler func(event ticket.LifecycleEvent)) error {
	return b.subscribeWithReconnect(ctx, func(payload string) {
		var event ticket.LifecycleEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			b.logger.Warnw("failed to unmarshal lifecycle event",
				"payload", payload,
				"error", err,
			)
			return
		}
		handler(event)
	})
}

// subscribeWithReconnect wraps subscribe with automatic reconnection and exponential backoff.
func (b *RedisTicketEventBus) subscribeWithReconnect(ctx context.Context, handler func(payload string)) error {
	backoff := time.Second
	maxBackoff := 30 * time.Second

	for {
		err := b.subscribe(ctx, handler)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		b.logger.Warnw("lifecycle subscription disconnected, reconnecting",
			"channel", b.channel,
			"error", err,
			"backoff", backoff,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff = min(backoff*2, maxBackoff)
	}
}

func (b *RedisTicketEventBus) subscribe(ctx context.Context, handler func(payload string)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel %s: %w", b.channel, err)
	}

	b.logger.Infow("subscribed to ticket lifecycle channel", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("lifecycle subscriber stopped",
				"channel", b.channel,
				"reason", ctx.Err(),
			)
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("lifecycle channel closed", "channel", b.channel)
				return nil
			}

			goroutine.SafeGo(b.logger, "lifecycle-event-handler", func() {
				handler(msg.Payload)
			})
		}
	}
}

// NoopTicketEventBus drops every event. It is used when Redis is disabled.
type NoopTicketEventBus struct{}

func (NoopTicketEventBus) PublishLifecycle(ctx context.Context, event ticket.LifecycleEvent) error {
	return nil
}

func (NoopTicketEventBus) SubscribeLifecycle(ctx context.Context, handler func(event ticket.LifecycleEvent)) error {
	<-ctx.Done()
	return ctx.Err()
}

var (
	_ TicketEventBus = (*RedisTicketEventBus)(nil)
	_ TicketEventBus = NoopTicketEventBus{}
)
