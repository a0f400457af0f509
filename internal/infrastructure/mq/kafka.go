package mq

import (
	"context"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

const (
	defaultKafkaTopic = "guildkeeper.analytics.events"
	kafkaWriteTimeout = 2 * time.Second
	kafkaBatchTimeout = 50 * time.Millisecond
)

// KafkaSink writes events to a Kafka topic keyed by guild, so one guild's
// events stay on one partition in order.
type KafkaSink struct {
	writer *kafka.Writer
	logger logger.Interface
}

func NewKafkaSink(brokers []string, topic string, log logger.Interface) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka analytics mirror requires at least one broker")
	}
	if topic == "" {
		topic = defaultKafkaTopic
	}

	// Writers are safe for concurrent use
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.Hash{},
		BatchTimeout: kafkaBatchTimeout,
	}
	log.Infow("kafka analytics mirror enabled", "brokers", brokers, "topic", topic)
	return &KafkaSink{writer: w, logger: log}, nil
}

func (s *KafkaSink) Publish(ctx context.Context, event *analytics.Event) error {
	body, err := encodeEvent(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, kafkaWriteTimeout)
	defer cancel()

	if err := s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.GuildID),
		Value: body,
	}); err != nil {
		return fmt.Errorf("failed to write to topic %s: %w", s.writer.Topic, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
