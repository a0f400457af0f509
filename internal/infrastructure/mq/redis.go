package mq

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// defaultStreamMaxLen caps the stream; trimming is approximate.
const defaultStreamMaxLen = 1_000_000

// RedisStreamSink appends events to a Redis stream with XADD. The JSON body
// is stored in a single "data" field.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
	logger logger.Interface
}

func NewRedisStreamSink(client *redis.Client, stream string, log logger.Interface) *RedisStreamSink {
	if stream == "" {
		stream = constants.AnalyticsEventStream
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: defaultStreamMaxLen,
		logger: log,
	}
}

func (s *RedisStreamSink) Publish(ctx context.Context, event *analytics.Event) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{"data": string(body)},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append to stream %s: %w", s.stream, err)
	}
	return nil
}

// Close leaves the shared client open; its owner closes it.
func (s *RedisStreamSink) Close() error { return nil }
