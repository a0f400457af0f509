package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// AnalyticsRepository implements the write, query and retention sides of
// analytics storage. Every counter change is a single INSERT .. ON CONFLICT
// so concurrent trackers add up instead of overwriting each other.
type AnalyticsRepository struct {
	db     *gorm.DB
	logger logger.Interface
	now    func() time.Time
}

func NewAnalyticsRepository(db *gorm.DB, logger logger.Interface) *AnalyticsRepository {
	return &AnalyticsRepository{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

var (
	_ analytics.Repository          = (*AnalyticsRepository)(nil)
	_ analytics.QueryRepository     = (*AnalyticsRepository)(nil)
	_ analytics.RetentionRepository = (*AnalyticsRepository)(nil)
)

func (r *AnalyticsRepository) InsertEvent(ctx context.Context, event *analytics.Event) error {
	model := mappers.EventToModel(event)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}
	event.ID = model.ID
	return nil
}

func (r *AnalyticsRepository) InsertCommand(ctx context.Context, cmd *analytics.CommandExecution) error {
	model := mappers.CommandToModel(cmd)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert command execution: %w", err)
	}
	cmd.ID = model.ID
	return nil
}

func (r *AnalyticsRepository) InsertHealth(ctx context.Context, snapshot *analytics.HealthSnapshot) error {
	model := mappers.HealthToModel(snapshot)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to insert health snapshot: %w", err)
	}
	snapshot.ID = model.ID
	return nil
}

func (r *AnalyticsRepository) IncrementDaily(ctx context.Context, guildID, date string, col analytics.DailyColumn, inc int64) error {
	if !col.IsValid() {
		return fmt.Errorf("invalid daily column: %s", col)
	}
	column := string(col)
	ms := r.now().UnixMilli()

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.DailyServerStatsModel{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guild_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column:       gorm.Expr(column+" + ?", inc),
				"updated_at": ms,
			}),
		}).
		Create(map[string]interface{}{
			"guild_id":   guildID,
			"date":       date,
			column:       inc,
			"created_at": ms,
			"updated_at": ms,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment daily %s: %w", column, err)
	}
	return nil
}

func (r *AnalyticsRepository) IncrementHourly(ctx context.Context, guildID, date string, hour int, col analytics.HourlyColumn, inc int64) error {
	if !col.IsValid() {
		return fmt.Errorf("invalid hourly column: %s", col)
	}
	if hour < 0 || hour > 23 {
		return fmt.Errorf("hour out of range: %d", hour)
	}
	column := string(col)

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.HourlyActivityModel{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guild_id"}, {Name: "date"}, {Name: "hour"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column: gorm.Expr(column+" + ?", inc),
			}),
		}).
		Create(map[string]interface{}{
			"guild_id": guildID,
			"date":     date,
			"hour":     hour,
			column:     inc,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to increment hourly %s: %w", column, err)
	}
	return nil
}

// UpsertChannel adds the delta and, when messages were counted, recomputes
// unique_users from the raw message events since the start of the day.
func (r *AnalyticsRepository) UpsertChannel(ctx context.Context, delta analytics.ChannelDelta) error {
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Model(&models.ChannelAnalyticsModel{}).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "guild_id"}, {Name: "channel_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"channel_name":  delta.Channel.Name,
				"channel_type":  delta.Channel.Type,
				"message_count": gorm.Expr("message_count + ?", delta.Messages),
				"voice_minutes": gorm.Expr("voice_minutes + ?", delta.VoiceMinutes),
			}),
		}).
		Create(map[string]interface{}{
			"guild_id":      delta.GuildID,
			"channel_id":    delta.Channel.ID,
			"date":          delta.Date,
			"channel_name":  delta.Channel.Name,
			"channel_type":  delta.Channel.Type,
			"message_count": delta.Messages,
			"voice_minutes": delta.VoiceMinutes,
			"unique_users":  0,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to upsert channel analytics: %w", err)
	}

	if delta.Messages == 0 {
		return nil
	}

	uniqueUsers := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.ServerAnalyticsModel{}).
		Select("COUNT(DISTINCT user_id)").
		Where("guild_id = ? AND channel_id = ? AND metric_type = ? AND user_id <> '' AND created_at >= ?",
			delta.GuildID, delta.Channel.ID, analytics.MetricMessageCount.String(), delta.DayStart.UnixMilli())

	err = tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.ChannelAnalyticsModel{}).
		Where("guild_id = ? AND channel_id = ? AND date = ?", delta.GuildID, delta.Channel.ID, delta.Date).
		UpdateColumn("unique_users", gorm.Expr("(?)", uniqueUsers)).Error
	if err != nil {
		return fmt.Errorf("failed to refresh channel unique users: %w", err)
	}
	return nil
}

// UpsertMember adds the delta to the member's row for the day. The first
// message time of a day is written once and never moved.
func (r *AnalyticsRepository) UpsertMember(ctx context.Context, delta analytics.MemberDelta) error {
	lastActivity := delta.LastActivityAt.UnixMilli()

	values := map[string]interface{}{
		"guild_id":         delta.GuildID,
		"user_id":          delta.UserID,
		"date":             delta.Date,
		"messages_sent":    delta.Messages,
		"commands_used":    delta.Commands,
		"reactions_given":  delta.Reactions,
		"voice_minutes":    delta.VoiceMinutes,
		"last_activity_at": lastActivity,
	}
	updates := map[string]interface{}{
		"messages_sent":    gorm.Expr("messages_sent + ?", delta.Messages),
		"commands_used":    gorm.Expr("commands_used + ?", delta.Commands),
		"reactions_given":  gorm.Expr("reactions_given + ?", delta.Reactions),
		"voice_minutes":    gorm.Expr("voice_minutes + ?", delta.VoiceMinutes),
		"last_activity_at": lastActivity,
	}
	if delta.Messages > 0 {
		values["first_message_time"] = lastActivity
		values["last_message_time"] = lastActivity
		updates["first_message_time"] = gorm.Expr("COALESCE(first_message_time, ?)", lastActivity)
		updates["last_message_time"] = lastActivity
	}

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberEngagementModel{}).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}, {Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(updates),
		}).
		Create(values).Error
	if err != nil {
		return fmt.Errorf("failed to upsert member engagement: %w", err)
	}
	return nil
}

func (r *AnalyticsRepository) RefreshDailySnapshot(ctx context.Context, guildID, date string, totalMembers, onlineMembers int64) error {
	ms := r.now().UnixMilli()

	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.DailyServerStatsModel{}).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "guild_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total_members": totalMembers,
					"peak_online":   gorm.Expr("CASE WHEN peak_online < ? THEN ? ELSE peak_online END", onlineMembers, onlineMembers),
					"updated_at":    ms,
				}),
			}).
			Create(map[string]interface{}{
				"guild_id":      guildID,
				"date":          date,
				"total_members": totalMembers,
				"peak_online":   onlineMembers,
				"created_at":    ms,
				"updated_at":    ms,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to upsert daily snapshot: %w", err)
		}

		activeMembers := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.MemberEngagementModel{}).
			Select("COUNT(DISTINCT user_id)").
			Where("guild_id = ? AND date = ?", guildID, date)

		err = tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.DailyServerStatsModel{}).
			Where("guild_id = ? AND date = ?", guildID, date).
			UpdateColumn("active_members", gorm.Expr("(?)", activeMembers)).Error
		if err != nil {
			return fmt.Errorf("failed to refresh active members: %w", err)
		}
		return nil
	})
}
