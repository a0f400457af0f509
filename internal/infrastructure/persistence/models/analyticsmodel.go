package models

import (
	"gorm.io/datatypes"
)

// ServerAnalyticsModel is the append-only raw event table.
type ServerAnalyticsModel struct {
	ID          uint           `gorm:"primaryKey"`
	GuildID     string         `gorm:"size:32;not null;index:idx_server_analytics_guild_created,priority:1"`
	MetricType  string         `gorm:"size:50;not null;index"`
	ChannelID   string         `gorm:"size:32;index"`
	UserID      string         `gorm:"size:32"`
	CommandName string         `gorm:"size:100"`
	Value       int64          `gorm:"not null;default:1"`
	Metadata    datatypes.JSON `gorm:"type:json"`
	CreatedAt   int64          `gorm:"not null;index:idx_server_analytics_guild_created,priority:2"`
}

func (ServerAnalyticsModel) TableName() string {
	return "server_analytics"
}

type DailyServerStatsModel struct {
	ID             uint   `gorm:"primaryKey"`
	GuildID        string `gorm:"size:32;not null;uniqueIndex:idx_daily_stats_guild_date,priority:1"`
	Date           string `gorm:"size:10;not null;uniqueIndex:idx_daily_stats_guild_date,priority:2"`
	TotalMessages  int64  `gorm:"not null;default:0"`
	TotalMembers   int64  `gorm:"not null;default:0"`
	ActiveMembers  int64  `gorm:"not null;default:0"`
	TotalCommands  int64  `gorm:"not null;default:0"`
	PeakOnline     int64  `gorm:"not null;default:0"`
	VoiceMinutes   int64  `gorm:"not null;default:0"`
	ReactionsGiven int64  `gorm:"not null;default:0"`
	NewMembers     int64  `gorm:"not null;default:0"`
	LeftMembers    int64  `gorm:"not null;default:0"`
	CreatedAt      int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt      int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (DailyServerStatsModel) TableName() string {
	return "daily_server_stats"
}

type HourlyActivityModel struct {
	ID           uint   `gorm:"primaryKey"`
	GuildID      string `gorm:"size:32;not null;uniqueIndex:idx_hourly_guild_date_hour,priority:1"`
	Date         string `gorm:"size:10;not null;uniqueIndex:idx_hourly_guild_date_hour,priority:2"`
	Hour         int    `gorm:"not null;uniqueIndex:idx_hourly_guild_date_hour,priority:3"`
	MessageCount int64  `gorm:"not null;default:0"`
	CommandCount int64  `gorm:"not null;default:0"`
	VoiceUsers   int64  `gorm:"not null;default:0"`
}

func (HourlyActivityModel) TableName() string {
	return "hourly_activity"
}

type ChannelAnalyticsModel struct {
	ID           uint   `gorm:"primaryKey"`
	GuildID      string `gorm:"size:32;not null;uniqueIndex:idx_channel_guild_channel_date,priority:1"`
	ChannelID    string `gorm:"size:32;not null;uniqueIndex:idx_channel_guild_channel_date,priority:2"`
	Date         string `gorm:"size:10;not null;uniqueIndex:idx_channel_guild_channel_date,priority:3"`
	ChannelName  string `gorm:"size:100"`
	ChannelType  string `gorm:"size:20"`
	MessageCount int64  `gorm:"not null;default:0"`
	UniqueUsers  int64  `gorm:"not null;default:0"`
	VoiceMinutes int64  `gorm:"not null;default:0"`
}

func (ChannelAnalyticsModel) TableName() string {
	return "channel_analytics"
}

// CommandAnalyticsModel is the append-only command execution log.
type CommandAnalyticsModel struct {
	ID              uint   `gorm:"primaryKey"`
	GuildID         string `gorm:"size:32;not null;index:idx_command_guild_created,priority:1"`
	CommandName     string `gorm:"size:100;not null;index"`
	UserID          string `gorm:"size:32;not null"`
	ChannelID       string `gorm:"size:32"`
	Success         bool   `gorm:"not null"`
	ExecutionTimeMs int64  `gorm:"not null;default:0"`
	ErrorMessage    string `gorm:"type:text"`
	CreatedAt       int64  `gorm:"not null;index:idx_command_guild_created,priority:2"`
}

func (CommandAnalyticsModel) TableName() string {
	return "command_analytics"
}

type MemberEngagementModel struct {
	ID               uint   `gorm:"primaryKey"`
	GuildID          string `gorm:"size:32;not null;uniqueIndex:idx_member_guild_user_date,priority:1"`
	UserID           string `gorm:"size:32;not null;uniqueIndex:idx_member_guild_user_date,priority:2"`
	Date             string `gorm:"size:10;not null;uniqueIndex:idx_member_guild_user_date,priority:3"`
	MessagesSent     int64  `gorm:"not null;default:0"`
	CommandsUsed     int64  `gorm:"not null;default:0"`
	ReactionsGiven   int64  `gorm:"not null;default:0"`
	VoiceMinutes     int64  `gorm:"not null;default:0"`
	FirstMessageTime *int64
	LastMessageTime  *int64
	LastActivityAt   int64 `gorm:"not null"`
}

func (MemberEngagementModel) TableName() string {
	return "member_engagement"
}

type ServerHealthModel struct {
	ID                uint    `gorm:"primaryKey"`
	GuildID           string  `gorm:"size:32;not null;index:idx_health_guild_created,priority:1"`
	MemberCount       int64   `gorm:"not null;default:0"`
	OnlineCount       int64   `gorm:"not null;default:0"`
	BotLatencyMs      int64   `gorm:"not null;default:0"`
	APIResponseTimeMs int64   `gorm:"column:api_response_time_ms;not null;default:0"`
	MemoryUsageMB     float64 `gorm:"column:memory_usage_mb;not null;default:0"`
	CPUUsage          float64 `gorm:"column:cpu_usage;not null;default:0"`
	UptimeSeconds     int64   `gorm:"not null;default:0"`
	ErrorCount        int64   `gorm:"not null;default:0"`
	CreatedAt         int64   `gorm:"not null;index:idx_health_guild_created,priority:2"`
}

func (ServerHealthModel) TableName() string {
	return "server_health"
}
