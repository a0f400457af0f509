package usecases

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
	"github.com/guildkeeper/guildkeeper/internal/shared/utils"
)

// GuildSettingsProvider resolves a guild's settings, defaults included.
type GuildSettingsProvider interface {
	GetGuildSettings(ctx context.Context, guildID string) (*setting.GuildSettings, error)
}

type TrackActivityCommand struct {
	GuildID     string                 `json:"guild_id" validate:"required"`
	MetricType  string                 `json:"metric_type" validate:"required"`
	ChannelID   string                 `json:"channel_id"`
	UserID      string                 `json:"user_id"`
	CommandName string                 `json:"command_name"`
	Value       int64                  `json:"value" validate:"gte=0"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// TrackResult reports which writes landed. Failed writes are logged, not
// returned.
type TrackResult struct {
	Skipped        bool   `json:"skipped"`
	EventRecorded  bool   `json:"event_recorded"`
	DailyColumn    string `json:"daily_column,omitempty"`
	DailyUpdated   bool   `json:"daily_updated"`
	HourlyColumn   string `json:"hourly_column,omitempty"`
	HourlyUpdated  bool   `json:"hourly_updated"`
	ChannelUpdated bool   `json:"channel_updated"`
	MemberUpdated  bool   `json:"member_updated"`
	CommandStored  bool   `json:"command_stored"`
}

// Tracker records analytics events and keeps the rollup tables current. The
// raw insert and each rollup are separate writes; one failing leaves the
// others in place.
type Tracker struct {
	repo     analytics.Repository
	settings GuildSettingsProvider
	sink     analytics.EventSink
	logger   logger.Interface
	now      func() time.Time
}

func NewTracker(
	repo analytics.Repository,
	settings GuildSettingsProvider,
	sink analytics.EventSink,
	logger logger.Interface,
) *Tracker {
	return &Tracker{
		repo:     repo,
		settings: settings,
		sink:     sink,
		logger:   logger,
		now:      biztime.NowUTC,
	}
}

// TrackActivity stores one raw event and bumps the daily and hourly rollups
// for the current business date.
func (t *Tracker) TrackActivity(ctx context.Context, cmd TrackActivityCommand) (*TrackResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if !t.enabled(ctx, cmd.GuildID) {
		return &TrackResult{Skipped: true}, nil
	}
	return t.trackActivity(ctx, cmd), nil
}

func (t *Tracker) trackActivity(ctx context.Context, cmd TrackActivityCommand) *TrackResult {
	result := &TrackResult{}
	now := t.now()
	metric := analytics.MetricType(cmd.MetricType)
	inc := cmd.Value
	if inc == 0 {
		inc = 1
	}

	event := &analytics.Event{
		GuildID:     cmd.GuildID,
		MetricType:  metric,
		ChannelID:   cmd.ChannelID,
		UserID:      cmd.UserID,
		CommandName: cmd.CommandName,
		Value:       inc,
		CreatedAt:   now,
	}
	if len(cmd.Metadata) > 0 {
		if raw, err := json.Marshal(cmd.Metadata); err == nil {
			event.Metadata = string(raw)
		} else {
			t.logger.Warnw("dropping unencodable analytics metadata", "guild_id", cmd.GuildID, "error", err)
		}
	}

	result.EventRecorded = t.write(ctx, constants.TableServerAnalytics, func(ctx context.Context) error {
		return t.repo.InsertEvent(ctx, event)
	}, "guild_id", cmd.GuildID, "metric_type", cmd.MetricType)

	date := biztime.DateKey(now)

	col, known := metric.DailyColumn()
	if !known {
		t.logger.Warnw("unknown metric type, counting as messages", "guild_id", cmd.GuildID, "metric_type", cmd.MetricType)
	}
	result.DailyColumn = string(col)
	result.DailyUpdated = t.write(ctx, constants.TableDailyServerStats, func(ctx context.Context) error {
		return t.repo.IncrementDaily(ctx, cmd.GuildID, date, col, inc)
	}, "guild_id", cmd.GuildID, "column", string(col))

	if hourly, ok := metric.HourlyColumn(); ok {
		hour := biztime.HourOf(now)
		result.HourlyColumn = string(hourly)
		result.HourlyUpdated = t.write(ctx, constants.TableHourlyActivity, func(ctx context.Context) error {
			return t.repo.IncrementHourly(ctx, cmd.GuildID, date, hour, hourly, inc)
		}, "guild_id", cmd.GuildID, "column", string(hourly), "hour", hour)
	}

	if t.sink != nil && result.EventRecorded {
		goroutine.BestEffort(ctx, t.logger, "mirror_analytics_event", func(ctx context.Context) error {
			return t.sink.Publish(ctx, event)
		}, "guild_id", cmd.GuildID)
	}

	return result
}

type TrackCommandCommand struct {
	GuildID         string `json:"guild_id" validate:"required"`
	CommandName     string `json:"command_name" validate:"required,max=100"`
	UserID          string `json:"user_id" validate:"required"`
	ChannelID       string `json:"channel_id"`
	Success         bool   `json:"success"`
	ExecutionTimeMs int64  `json:"execution_time_ms" validate:"gte=0"`
	ErrorMessage    string `json:"error_message"`
}

// TrackCommand stores the command execution and feeds it through
// TrackActivity as command_usage.
func (t *Tracker) TrackCommand(ctx context.Context, cmd TrackCommandCommand) (*TrackResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if !t.enabled(ctx, cmd.GuildID) {
		return &TrackResult{Skipped: true}, nil
	}

	now := t.now()
	execution := &analytics.CommandExecution{
		GuildID:         cmd.GuildID,
		CommandName:     cmd.CommandName,
		UserID:          cmd.UserID,
		ChannelID:       cmd.ChannelID,
		Success:         cmd.Success,
		ExecutionTimeMs: cmd.ExecutionTimeMs,
		ErrorMessage:    cmd.ErrorMessage,
		CreatedAt:       now,
	}
	stored := t.write(ctx, constants.TableCommandAnalytics, func(ctx context.Context) error {
		return t.repo.InsertCommand(ctx, execution)
	}, "guild_id", cmd.GuildID, "command", cmd.CommandName)

	result := t.trackActivity(ctx, TrackActivityCommand{
		GuildID:     cmd.GuildID,
		MetricType:  string(analytics.MetricCommandUsage),
		ChannelID:   cmd.ChannelID,
		UserID:      cmd.UserID,
		CommandName: cmd.CommandName,
		Value:       1,
	})
	result.CommandStored = stored
	result.MemberUpdated = t.upsertMember(ctx, analytics.MemberDelta{
		GuildID:  cmd.GuildID,
		UserID:   cmd.UserID,
		Commands: 1,
	}, now)
	return result, nil
}

type TrackMessageCommand struct {
	GuildID     string `json:"guild_id" validate:"required"`
	ChannelID   string `json:"channel_id" validate:"required"`
	ChannelName string `json:"channel_name"`
	ChannelType string `json:"channel_type"`
	UserID      string `json:"user_id" validate:"required"`
}

// TrackMessage counts one message for the guild, its channel and its author.
func (t *Tracker) TrackMessage(ctx context.Context, cmd TrackMessageCommand) (*TrackResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if !t.enabled(ctx, cmd.GuildID) {
		return &TrackResult{Skipped: true}, nil
	}

	now := t.now()
	result := t.trackActivity(ctx, TrackActivityCommand{
		GuildID:    cmd.GuildID,
		MetricType: string(analytics.MetricMessageCount),
		ChannelID:  cmd.ChannelID,
		UserID:     cmd.UserID,
		Value:      1,
	})
	result.ChannelUpdated = t.upsertChannel(ctx, analytics.ChannelDelta{
		GuildID:  cmd.GuildID,
		Channel:  analytics.ChannelRef{ID: cmd.ChannelID, Name: cmd.ChannelName, Type: cmd.ChannelType},
		Messages: 1,
	}, now)
	result.MemberUpdated = t.upsertMember(ctx, analytics.MemberDelta{
		GuildID:  cmd.GuildID,
		UserID:   cmd.UserID,
		Messages: 1,
	}, now)
	return result, nil
}

type TrackReactionCommand struct {
	GuildID   string `json:"guild_id" validate:"required"`
	ChannelID string `json:"channel_id"`
	UserID    string `json:"user_id" validate:"required"`
}

func (t *Tracker) TrackReaction(ctx context.Context, cmd TrackReactionCommand) (*TrackResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if !t.enabled(ctx, cmd.GuildID) {
		return &TrackResult{Skipped: true}, nil
	}

	now := t.now()
	result := t.trackActivity(ctx, TrackActivityCommand{
		GuildID:    cmd.GuildID,
		MetricType: string(analytics.MetricReactionCount),
		ChannelID:  cmd.ChannelID,
		UserID:     cmd.UserID,
		Value:      1,
	})
	result.MemberUpdated = t.upsertMember(ctx, analytics.MemberDelta{
		GuildID:   cmd.GuildID,
		UserID:    cmd.UserID,
		Reactions: 1,
	}, now)
	return result, nil
}

type TrackVoiceCommand struct {
	GuildID     string `json:"guild_id" validate:"required"`
	ChannelID   string `json:"channel_id" validate:"required"`
	ChannelName string `json:"channel_name"`
	UserID      string `json:"user_id" validate:"required"`
	Minutes     int64  `json:"minutes" validate:"gte=1"`
}

// TrackVoice adds a finished voice session's minutes.
func (t *Tracker) TrackVoice(ctx context.Context, cmd TrackVoiceCommand) (*TrackResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if !t.enabled(ctx, cmd.GuildID) {
		return &TrackResult{Skipped: true}, nil
	}

	now := t.now()
	result := t.trackActivity(ctx, TrackActivityCommand{
		GuildID:    cmd.GuildID,
		MetricType: string(analytics.MetricVoiceActivity),
		ChannelID:  cmd.ChannelID,
		UserID:     cmd.UserID,
		Value:      cmd.Minutes,
	})
	result.ChannelUpdated = t.upsertChannel(ctx, analytics.ChannelDelta{
		GuildID:      cmd.GuildID,
		Channel:      analytics.ChannelRef{ID: cmd.ChannelID, Name: cmd.ChannelName, Type: "voice"},
		VoiceMinutes: cmd.Minutes,
	}, now)
	result.MemberUpdated = t.upsertMember(ctx, analytics.MemberDelta{
		GuildID:      cmd.GuildID,
		UserID:       cmd.UserID,
		VoiceMinutes: cmd.Minutes,
	}, now)
	return result, nil
}

func (t *Tracker) TrackMemberJoin(ctx context.Context, guildID, userID string) (*TrackResult, error) {
	return t.trackMembership(ctx, guildID, userID, analytics.MetricMemberJoin)
}

func (t *Tracker) TrackMemberLeave(ctx context.Context, guildID, userID string) (*TrackResult, error) {
	return t.trackMembership(ctx, guildID, userID, analytics.MetricMemberLeave)
}

func (t *Tracker) trackMembership(ctx context.Context, guildID, userID string, metric analytics.MetricType) (*TrackResult, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	if !t.enabled(ctx, guildID) {
		return &TrackResult{Skipped: true}, nil
	}
	return t.trackActivity(ctx, TrackActivityCommand{
		GuildID:    guildID,
		MetricType: string(metric),
		UserID:     userID,
		Value:      1,
	}), nil
}

// RefreshDailySnapshot records today's member totals. peak_online only
// ever rises within a day.
func (t *Tracker) RefreshDailySnapshot(ctx context.Context, guildID string, totalMembers, onlineMembers int64) error {
	if guildID == "" {
		return errors.NewValidationError("guild ID is required")
	}
	if totalMembers < 0 || onlineMembers < 0 {
		return errors.NewValidationError("member counts must not be negative")
	}
	if !t.enabled(ctx, guildID) {
		return nil
	}

	date := biztime.DateKey(t.now())
	err := t.repo.RefreshDailySnapshot(ctx, guildID, date, totalMembers, onlineMembers)
	metrics.AnalyticsWrites.WithLabelValues(constants.TableDailyServerStats, metrics.Outcome(err)).Inc()
	if err != nil {
		t.logger.Errorw("failed to refresh daily snapshot", "guild_id", guildID, "date", date, "error", err)
		return errors.NewInternalError("failed to refresh daily snapshot").WithCause(err)
	}
	return nil
}

func (t *Tracker) upsertChannel(ctx context.Context, delta analytics.ChannelDelta, now time.Time) bool {
	if delta.Channel.ID == "" {
		return false
	}
	delta.Date = biztime.DateKey(now)
	delta.DayStart = biztime.StartOfDayUTC(now)
	return t.write(ctx, constants.TableChannelAnalytics, func(ctx context.Context) error {
		return t.repo.UpsertChannel(ctx, delta)
	}, "guild_id", delta.GuildID, "channel_id", delta.Channel.ID)
}

func (t *Tracker) upsertMember(ctx context.Context, delta analytics.MemberDelta, now time.Time) bool {
	if delta.UserID == "" {
		return false
	}
	delta.Date = biztime.DateKey(now)
	delta.LastActivityAt = now
	return t.write(ctx, constants.TableMemberEngagement, func(ctx context.Context) error {
		return t.repo.UpsertMember(ctx, delta)
	}, "guild_id", delta.GuildID, "user_id", delta.UserID)
}

// write runs one best-effort table write and counts its outcome.
func (t *Tracker) write(ctx context.Context, table string, fn func(ctx context.Context) error, keysAndValues ...interface{}) bool {
	ok := goroutine.BestEffort(ctx, t.logger, "analytics_"+table, fn, keysAndValues...)
	outcome := metrics.OutcomeSuccess
	if !ok {
		outcome = metrics.OutcomeFailure
	}
	metrics.AnalyticsWrites.WithLabelValues(table, outcome).Inc()
	return ok
}

// enabled reports whether analytics are on for guildID. A settings lookup
// failure keeps tracking on.
func (t *Tracker) enabled(ctx context.Context, guildID string) bool {
	if t.settings == nil {
		return true
	}
	s, err := t.settings.GetGuildSettings(ctx, guildID)
	if err != nil {
		t.logger.Warnw("failed to load guild settings, tracking anyway", "guild_id", guildID, "error", err)
		return true
	}
	if !s.AnalyticsEnabled() {
		metrics.AnalyticsWrites.WithLabelValues(constants.TableServerAnalytics, metrics.OutcomeSkipped).Inc()
		return false
	}
	return true
}
