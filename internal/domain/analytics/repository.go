package analytics

import (
	"context"
	"time"
)

// Repository is the write side: raw inserts and additive rollup upserts.
// Every Increment call is a single INSERT .. ON CONFLICT statement so
// concurrent writers never lose an increment.
type Repository interface {
	InsertEvent(ctx context.Context, event *Event) error
	InsertCommand(ctx context.Context, cmd *CommandExecution) error
	InsertHealth(ctx context.Context, snapshot *HealthSnapshot) error

	IncrementDaily(ctx context.Context, guildID, date string, col DailyColumn, inc int64) error
	IncrementHourly(ctx context.Context, guildID, date string, hour int, col HourlyColumn, inc int64) error
	UpsertChannel(ctx context.Context, delta ChannelDelta) error
	UpsertMember(ctx context.Context, delta MemberDelta) error

	// RefreshDailySnapshot sets total_members, raises peak_online and
	// recomputes active_members from today's member_engagement rows.
	RefreshDailySnapshot(ctx context.Context, guildID, date string, totalMembers, onlineMembers int64) error
}

// QueryRepository is the read side. since* arguments are inclusive lower bounds.
type QueryRepository interface {
	GetServerOverview(ctx context.Context, guildID, sinceDate string) (*ServerOverview, error)
	GetHourlyActivity(ctx context.Context, guildID, sinceDate string, sinceHour int) ([]HourlyBucket, error)
	GetTopChannels(ctx context.Context, guildID, sinceDate string, limit int) ([]ChannelStat, error)
	GetCommandStats(ctx context.Context, guildID string, since time.Time, limit int) ([]CommandStat, error)
	GetMemberEngagement(ctx context.Context, guildID, sinceDate string, limit int) ([]MemberEngagementStat, error)
	GetHealthHistory(ctx context.Context, guildID string, since time.Time, limit int) ([]HealthSnapshot, error)
}

// RetentionRepository removes rows older than a cutoff from every analytics table.
type RetentionRepository interface {
	DeleteOlderThan(ctx context.Context, cutoffDate string, cutoff time.Time) (CleanupResult, error)
}

// EventSink receives a copy of every raw event after it is stored.
type EventSink interface {
	Publish(ctx context.Context, event *Event) error
}
