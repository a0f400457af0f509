// Package events feeds gateway events, one JSON object per line, into the
// ticket activity tracker and the analytics tracker.
package events

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	analyticsUsecases "github.com/guildkeeper/guildkeeper/internal/application/analytics/usecases"
	ticketUsecases "github.com/guildkeeper/guildkeeper/internal/application/ticket/usecases"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils/logutil"
)

const (
	TypeMessage     = "message"
	TypeCommand     = "command"
	TypeReaction    = "reaction"
	TypeVoice       = "voice"
	TypeMemberJoin  = "member_join"
	TypeMemberLeave = "member_leave"
	TypeActivity    = "activity"
)

// maxLineBytes bounds a single event line; message content is capped well
// below this by Discord.
const maxLineBytes = 1 << 20

type ActivityRecorder interface {
	Execute(ctx context.Context, cmd ticketUsecases.RecordActivityCommand) *ticketUsecases.RecordActivityResult
}

type AnalyticsTracker interface {
	TrackActivity(ctx context.Context, cmd analyticsUsecases.TrackActivityCommand) (*analyticsUsecases.TrackResult, error)
	TrackMessage(ctx context.Context, cmd analyticsUsecases.TrackMessageCommand) (*analyticsUsecases.TrackResult, error)
	TrackCommand(ctx context.Context, cmd analyticsUsecases.TrackCommandCommand) (*analyticsUsecases.TrackResult, error)
	TrackReaction(ctx context.Context, cmd analyticsUsecases.TrackReactionCommand) (*analyticsUsecases.TrackResult, error)
	TrackVoice(ctx context.Context, cmd analyticsUsecases.TrackVoiceCommand) (*analyticsUsecases.TrackResult, error)
	TrackMemberJoin(ctx context.Context, guildID, userID string) (*analyticsUsecases.TrackResult, error)
	TrackMemberLeave(ctx context.Context, guildID, userID string) (*analyticsUsecases.TrackResult, error)
}

// InboundEvent is the line format accepted by Ingest. Fields irrelevant to
// Type are ignored.
type InboundEvent struct {
	Type            string                 `json:"type"`
	GuildID         string                 `json:"guild_id"`
	ChannelID       string                 `json:"channel_id,omitempty"`
	ChannelName     string                 `json:"channel_name,omitempty"`
	ChannelType     string                 `json:"channel_type,omitempty"`
	UserID          string                 `json:"user_id,omitempty"`
	UserName        string                 `json:"user_name,omitempty"`
	RoleIDs         []string               `json:"role_ids,omitempty"`
	IsStaff         bool                   `json:"is_staff,omitempty"`
	MessageID       string                 `json:"message_id,omitempty"`
	Content         string                 `json:"content,omitempty"`
	Command         string                 `json:"command,omitempty"`
	Success         *bool                  `json:"success,omitempty"`
	ExecutionTimeMs int64                  `json:"execution_time_ms,omitempty"`
	ErrorMessage    string                 `json:"error_message,omitempty"`
	Minutes         int64                  `json:"minutes,omitempty"`
	MetricType      string                 `json:"metric_type,omitempty"`
	Value           int64                  `json:"value,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	Timestamp       time.Time              `json:"timestamp,omitempty"`
}

// LineError names the input line that could not be processed.
type LineError struct {
	Line  int    `json:"line"`
	Type  string `json:"type,omitempty"`
	Error string `json:"error"`
}

type IngestSummary struct {
	Processed      int            `json:"processed"`
	Failed         int            `json:"failed"`
	ByType         map[string]int `json:"by_type"`
	TicketsTouched int            `json:"tickets_touched"`
	Errors         []LineError    `json:"errors,omitempty"`
}

type Dispatcher struct {
	activity ActivityRecorder
	tracker  AnalyticsTracker
	logger   logger.Interface
}

func NewDispatcher(activity ActivityRecorder, tracker AnalyticsTracker, log logger.Interface) *Dispatcher {
	return &Dispatcher{activity: activity, tracker: tracker, logger: log}
}

// Ingest reads events from r until EOF. A bad line is recorded in the
// summary and skipped; only a read failure or cancellation stops the run.
func (d *Dispatcher) Ingest(ctx context.Context, r io.Reader) (*IngestSummary, error) {
	summary := &IngestSummary{ByType: make(map[string]int)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var event InboundEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			d.fail(summary, line, "", fmt.Errorf("malformed event: %w", err))
			d.logger.Warnw("skipping malformed event", "line", line, "raw", logutil.TruncateForLog(string(raw), 80))
			continue
		}

		touched, err := d.Dispatch(ctx, event)
		if err != nil {
			d.fail(summary, line, event.Type, err)
			continue
		}
		summary.Processed++
		summary.ByType[event.Type]++
		if touched {
			summary.TicketsTouched++
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, fmt.Errorf("failed to read events: %w", err)
	}

	d.logger.Infow("event ingest finished",
		"processed", summary.Processed,
		"failed", summary.Failed,
		"tickets_touched", summary.TicketsTouched,
	)
	return summary, nil
}

func (d *Dispatcher) fail(summary *IngestSummary, line int, eventType string, err error) {
	summary.Failed++
	summary.Errors = append(summary.Errors, LineError{Line: line, Type: eventType, Error: err.Error()})
}

// Dispatch routes one event. The bool reports whether a message landed in a
// ticket channel.
func (d *Dispatcher) Dispatch(ctx context.Context, e InboundEvent) (bool, error) {
	switch e.Type {
	case TypeMessage:
		res := d.activity.Execute(ctx, ticketUsecases.RecordActivityCommand{
			ChannelName:   e.ChannelName,
			GuildID:       e.GuildID,
			AuthorID:      e.UserID,
			AuthorName:    e.UserName,
			AuthorRoleIDs: e.RoleIDs,
			AuthorIsStaff: e.IsStaff,
			MessageID:     e.MessageID,
			Content:       e.Content,
			Timestamp:     e.Timestamp,
		})
		_, err := d.tracker.TrackMessage(ctx, analyticsUsecases.TrackMessageCommand{
			GuildID:     e.GuildID,
			ChannelID:   e.ChannelID,
			ChannelName: e.ChannelName,
			ChannelType: e.ChannelType,
			UserID:      e.UserID,
		})
		return res != nil && res.Matched, err

	case TypeCommand:
		success := true
		if e.Success != nil {
			success = *e.Success
		}
		_, err := d.tracker.TrackCommand(ctx, analyticsUsecases.TrackCommandCommand{
			GuildID:         e.GuildID,
			CommandName:     e.Command,
			UserID:          e.UserID,
			ChannelID:       e.ChannelID,
			Success:         success,
			ExecutionTimeMs: e.ExecutionTimeMs,
			ErrorMessage:    e.ErrorMessage,
		})
		return false, err

	case TypeReaction:
		_, err := d.tracker.TrackReaction(ctx, analyticsUsecases.TrackReactionCommand{
			GuildID:   e.GuildID,
			ChannelID: e.ChannelID,
			UserID:    e.UserID,
		})
		return false, err

	case TypeVoice:
		_, err := d.tracker.TrackVoice(ctx, analyticsUsecases.TrackVoiceCommand{
			GuildID:     e.GuildID,
			ChannelID:   e.ChannelID,
			ChannelName: e.ChannelName,
			UserID:      e.UserID,
			Minutes:     e.Minutes,
		})
		return false, err

	case TypeMemberJoin:
		_, err := d.tracker.TrackMemberJoin(ctx, e.GuildID, e.UserID)
		return false, err

	case TypeMemberLeave:
		_, err := d.tracker.TrackMemberLeave(ctx, e.GuildID, e.UserID)
		return false, err

	case TypeActivity:
		_, err := d.tracker.TrackActivity(ctx, analyticsUsecases.TrackActivityCommand{
			GuildID:     e.GuildID,
			MetricType:  e.MetricType,
			ChannelID:   e.ChannelID,
			UserID:      e.UserID,
			CommandName: e.Command,
			Value:       e.Value,
			Metadata:    e.Metadata,
		})
		return false, err

	default:
		return false, fmt.Errorf("unknown event type %q", e.Type)
	}
}
