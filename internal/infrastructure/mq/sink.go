// Package mq mirrors stored analytics events to an external stream for
// downstream consumers.
package mq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/config"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// Mirror types accepted in analytics.mirror.type.
const (
	TypeNoop  = "noop"
	TypeRedis = "redis"
	TypeKafka = "kafka"
)

// Sink is an analytics.EventSink that owns a connection.
type Sink interface {
	analytics.EventSink
	Close() error
}

// eventMessage is the wire form of a mirrored event.
type eventMessage struct {
	ID          uint   `json:"id"`
	GuildID     string `json:"guild_id"`
	MetricType  string `json:"metric_type"`
	ChannelID   string `json:"channel_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	CommandName string `json:"command_name,omitempty"`
	Value       int64  `json:"value"`
	Metadata    string `json:"metadata,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}

func encodeEvent(event *analytics.Event) ([]byte, error) {
	b, err := json.Marshal(eventMessage{
		ID:          event.ID,
		GuildID:     event.GuildID,
		MetricType:  string(event.MetricType),
		ChannelID:   event.ChannelID,
		UserID:      event.UserID,
		CommandName: event.CommandName,
		Value:       event.Value,
		Metadata:    event.Metadata,
		CreatedAt:   event.CreatedAt.UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode analytics event: %w", err)
	}
	return b, nil
}

// NewSink builds the sink selected by cfg. The redis sink needs client;
// the others ignore it.
func NewSink(cfg config.AnalyticsMirrorConfig, client *redis.Client, log logger.Interface) (Sink, error) {
	switch cfg.Type {
	case "", TypeNoop:
		return NoopSink{}, nil
	case TypeRedis:
		if client == nil {
			return nil, fmt.Errorf("redis analytics mirror requires redis.enabled")
		}
		return NewRedisStreamSink(client, cfg.RedisStream, log), nil
	case TypeKafka:
		return NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, log)
	default:
		return nil, fmt.Errorf("unsupported analytics mirror %q", cfg.Type)
	}
}

// NoopSink discards events.
type NoopSink struct{}

func (NoopSink) Publish(ctx context.Context, event *analytics.Event) error { return nil }
func (NoopSink) Close() error                                              { return nil }
