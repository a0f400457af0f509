package analytics

import "time"

type ServerOverview struct {
	GuildID          string  `json:"guild_id" yaml:"guild_id"`
	Days             int     `json:"days" yaml:"days"`
	TotalMessages    int64   `json:"total_messages" yaml:"total_messages"`
	TotalCommands    int64   `json:"total_commands" yaml:"total_commands"`
	NewMembers       int64   `json:"new_members" yaml:"new_members"`
	LeftMembers      int64   `json:"left_members" yaml:"left_members"`
	VoiceMinutes     int64   `json:"voice_minutes" yaml:"voice_minutes"`
	ReactionsGiven   int64   `json:"reactions_given" yaml:"reactions_given"`
	AvgActiveMembers float64 `json:"avg_active_members" yaml:"avg_active_members"`
	PeakOnline       int64   `json:"peak_online" yaml:"peak_online"`
	TotalMembers     int64   `json:"total_members" yaml:"total_members"`
}

type HourlyBucket struct {
	Date         string `json:"date" yaml:"date"`
	Hour         int    `json:"hour" yaml:"hour"`
	MessageCount int64  `json:"message_count" yaml:"message_count"`
	CommandCount int64  `json:"command_count" yaml:"command_count"`
	VoiceUsers   int64  `json:"voice_users" yaml:"voice_users"`
}

type ChannelStat struct {
	ChannelID    string `json:"channel_id" yaml:"channel_id"`
	ChannelName  string `json:"channel_name" yaml:"channel_name"`
	ChannelType  string `json:"channel_type" yaml:"channel_type"`
	MessageCount int64  `json:"message_count" yaml:"message_count"`
	UniqueUsers  int64  `json:"unique_users" yaml:"unique_users"`
	VoiceMinutes int64  `json:"voice_minutes" yaml:"voice_minutes"`
}

type CommandStat struct {
	CommandName        string  `json:"command_name" yaml:"command_name"`
	Uses               int64   `json:"uses" yaml:"uses"`
	SuccessCount       int64   `json:"success_count" yaml:"success_count"`
	FailureCount       int64   `json:"failure_count" yaml:"failure_count"`
	AvgExecutionTimeMs float64 `json:"avg_execution_time_ms" yaml:"avg_execution_time_ms"`
	UniqueUsers        int64   `json:"unique_users" yaml:"unique_users"`
}

type MemberEngagementStat struct {
	UserID         string `json:"user_id" yaml:"user_id"`
	MessagesSent   int64  `json:"messages_sent" yaml:"messages_sent"`
	CommandsUsed   int64  `json:"commands_used" yaml:"commands_used"`
	ReactionsGiven int64  `json:"reactions_given" yaml:"reactions_given"`
	VoiceMinutes   int64  `json:"voice_minutes" yaml:"voice_minutes"`
	ActiveDays     int64  `json:"active_days" yaml:"active_days"`
}

// Export is every read model of one guild composed into a single snapshot.
type Export struct {
	ExportID    string                 `json:"export_id" yaml:"export_id"`
	GuildID     string                 `json:"guild_id" yaml:"guild_id"`
	Days        int                    `json:"days" yaml:"days"`
	ExportedAt  time.Time              `json:"exported_at" yaml:"exported_at"`
	Overview    *ServerOverview        `json:"overview" yaml:"overview"`
	Hourly      []HourlyBucket         `json:"hourly" yaml:"hourly"`
	TopChannels []ChannelStat          `json:"top_channels" yaml:"top_channels"`
	Commands    []CommandStat          `json:"commands" yaml:"commands"`
	Members     []MemberEngagementStat `json:"members" yaml:"members"`
	Health      []HealthSnapshot       `json:"health" yaml:"health"`
}

// CleanupResult maps table name to rows deleted.
type CleanupResult map[string]int64

func (r CleanupResult) Total() int64 {
	var n int64
	for _, v := range r {
		n += v
	}
	return n
}
