package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// RedisMessageHistory keeps the most recent messages of each ticket channel
// in a capped Redis list. It is the transcript source for close and delete.
type RedisMessageHistory struct {
	client *redis.Client
	limit  int64
	ttl    time.Duration
	logger logger.Interface
}

// NewRedisMessageHistory creates a history capped at limit messages per
// ticket. Each append extends the list's lifetime to ttl.
func NewRedisMessageHistory(client *redis.Client, limit int, ttl time.Duration, logger logger.Interface) *RedisMessageHistory {
	if limit <= 0 {
		limit = constants.DefaultMessageLogLimit
	}
	if ttl <= 0 {
		ttl = time.Duration(constants.DefaultMessageLogTTLHours) * time.Hour
	}
	return &RedisMessageHistory{
		client: client,
		limit:  int64(limit),
		ttl:    ttl,
		logger: logger,
	}
}

func messageLogKey(ticketID uint) string {
	return fmt.Sprintf(constants.TicketMessageLogKeyFormat, ticketID)
}

// Append adds msg to the end of the ticket's log and trims the oldest
// entries beyond the cap.
func (h *RedisMessageHistory) Append(ctx context.Context, ticketID uint, msg ticket.TranscriptMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := messageLogKey(ticketID)
	_, err = h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, -h.limit, -1)
		pipe.Expire(ctx, key, h.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append message to ticket %d log: %w", ticketID, err)
	}
	return nil
}

// Fetch returns the logged messages oldest first. Entries that no longer
// decode are skipped.
func (h *RedisMessageHistory) Fetch(ctx context.Context, ticketID uint) ([]ticket.TranscriptMessage, error) {
	raw, err := h.client.LRange(ctx, messageLogKey(ticketID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket %d log: %w", ticketID, err)
	}

	messages := make([]ticket.TranscriptMessage, 0, len(raw))
	for _, entry := range raw {
		var msg ticket.TranscriptMessage
		if err := json.Unmarshal([]byte(entry), &msg); err != nil {
			h.logger.Warnw("skipping malformed message log entry", "ticket_id", ticketID, "error", err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// Clear removes the ticket's log.
func (h *RedisMessageHistory) Clear(ctx context.Context, ticketID uint) error {
	if err := h.client.Del(ctx, messageLogKey(ticketID)).Err(); err != nil {
		return fmt.Errorf("failed to clear ticket %d log: %w", ticketID, err)
	}
	return nil
}

var _ ticket.MessageHistory = (*RedisMessageHistory)(nil)
