package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/mappers"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
)

// GetServerOverview sums the daily rows since sinceDate. TotalMembers is the
// latest day's value rather than a sum.
func (r *AnalyticsRepository) GetServerOverview(ctx context.Context, guildID, sinceDate string) (*analytics.ServerOverview, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var overview analytics.ServerOverview
	err := tx.Model(&models.DailyServerStatsModel{}).
		Select(`COALESCE(SUM(total_messages), 0) AS total_messages,
			COALESCE(SUM(total_commands), 0) AS total_commands,
			COALESCE(SUM(new_members), 0) AS new_members,
			COALESCE(SUM(left_members), 0) AS left_members,
			COALESCE(SUM(voice_minutes), 0) AS voice_minutes,
			COALESCE(SUM(reactions_given), 0) AS reactions_given,
			COALESCE(AVG(active_members), 0) AS avg_active_members,
			COALESCE(MAX(peak_online), 0) AS peak_online`).
		Scopes(db.ForGuild(guildID), db.DateSince(sinceDate)).
		Scan(&overview).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}

	var latest []models.DailyServerStatsModel
	err = tx.Model(&models.DailyServerStatsModel{}).
		Select("total_members").
		Scopes(db.ForGuild(guildID), db.DateSince(sinceDate)).
		Order("date DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load latest member total: %w", err)
	}
	if len(latest) > 0 {
		overview.TotalMembers = latest[0].TotalMembers
	}

	return &overview, nil
}

// GetHourlyActivity returns buckets at or after (sinceDate, sinceHour) in
// chronological order.
func (r *AnalyticsRepository) GetHourlyActivity(ctx context.Context, guildID, sinceDate string, sinceHour int) ([]analytics.HourlyBucket, error) {
	var rows []models.HourlyActivityModel
	err := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForGuild(guildID)).
		Where("date > ? OR (date = ? AND hour >= ?)", sinceDate, sinceDate, sinceHour).
		Order("date ASC, hour ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load hourly activity: %w", err)
	}

	buckets := make([]analytics.HourlyBucket, 0, len(rows))
	for _, row := range rows {
		buckets = append(buckets, analytics.HourlyBucket{
			Date:         row.Date,
			Hour:         row.Hour,
			MessageCount: row.MessageCount,
			CommandCount: row.CommandCount,
			VoiceUsers:   row.VoiceUsers,
		})
	}
	return buckets, nil
}

// GetTopChannels ranks channels by messages over the window. unique_users is
// the busiest single day since per-day distinct counts cannot be summed.
func (r *AnalyticsRepository) GetTopChannels(ctx context.Context, guildID, sinceDate string, limit int) ([]analytics.ChannelStat, error) {
	stats := make([]analytics.ChannelStat, 0)
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.ChannelAnalyticsModel{}).
		Select(`channel_id,
			MAX(channel_name) AS channel_name,
			MAX(channel_type) AS channel_type,
			SUM(message_count) AS message_count,
			MAX(unique_users) AS unique_users,
			SUM(voice_minutes) AS voice_minutes`).
		Scopes(db.ForGuild(guildID), db.DateSince(sinceDate)).
		Group("channel_id").
		Order("message_count DESC, channel_id ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top channels: %w", err)
	}
	return stats, nil
}

func (r *AnalyticsRepository) GetCommandStats(ctx context.Context, guildID string, since time.Time, limit int) ([]analytics.CommandStat, error) {
	stats := make([]analytics.CommandStat, 0)
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.CommandAnalyticsModel{}).
		Select(`command_name,
			COUNT(*) AS uses,
			SUM(CASE WHEN success THEN 1 ELSE 0 END) AS success_count,
			COALESCE(AVG(execution_time_ms), 0) AS avg_execution_time_ms,
			COUNT(DISTINCT user_id) AS unique_users`).
		Scopes(db.ForGuild(guildID), db.CreatedSince(since.UnixMilli())).
		Group("command_name").
		Order("uses DESC, command_name ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load command stats: %w", err)
	}
	for i := range stats {
		stats[i].FailureCount = stats[i].Uses - stats[i].SuccessCount
	}
	return stats, nil
}

func (r *AnalyticsRepository) GetMemberEngagement(ctx context.Context, guildID, sinceDate string, limit int) ([]analytics.MemberEngagementStat, error) {
	stats := make([]analytics.MemberEngagementStat, 0)
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.MemberEngagementModel{}).
		Select(`user_id,
			SUM(messages_sent) AS messages_sent,
			SUM(commands_used) AS commands_used,
			SUM(reactions_given) AS reactions_given,
			SUM(voice_minutes) AS voice_minutes,
			COUNT(*) AS active_days`).
		Scopes(db.ForGuild(guildID), db.DateSince(sinceDate)).
		Group("user_id").
		Order("messages_sent DESC, user_id ASC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load member engagement: %w", err)
	}
	return stats, nil
}

// GetHealthHistory returns snapshots since the given time, newest first. A
// non-positive limit returns the whole window.
func (r *AnalyticsRepository) GetHealthHistory(ctx context.Context, guildID string, since time.Time, limit int) ([]analytics.HealthSnapshot, error) {
	var rows []models.ServerHealthModel
	query := db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForGuild(guildID), db.CreatedSince(since.UnixMilli())).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load health history: %w", err)
	}

	history := make([]analytics.HealthSnapshot, 0, len(rows))
	for i := range rows {
		history = append(history, mappers.HealthToDomain(&rows[i]))
	}
	return history, nil
}
