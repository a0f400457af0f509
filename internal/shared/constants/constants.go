package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Database table names
	TableTickets             = "tickets"
	TableTicketTranscripts   = "ticket_transcripts"
	TableTicketStaffActivity = "ticket_staff_activity"
	TableServerAnalytics     = "server_analytics"
	TableDailyServerStats    = "daily_server_stats"
	TableHourlyActivity      = "hourly_activity"
	TableChannelAnalytics    = "channel_analytics"
	TableCommandAnalytics    = "command_analytics"
	TableMemberEngagement    = "member_engagement"
	TableServerHealth        = "server_health"
	TableGuildSettings       = "guild_settings"

	// Ticket policy
	TicketChannelPrefix   = "ticket-"
	MinReasonLength       = 3
	MaxReasonLength       = 500
	MaxSubjectLength      = 200
	DefaultMaxOpenTickets = 1

	// Ticket infrastructure defaults
	DefaultMessageLogLimit       = 500
	DefaultMessageLogTTLHours    = 168
	DefaultBulkDeleteConcurrency = 4

	// Analytics defaults
	DefaultRetentionDays = 90
	DefaultOverviewDays  = 7
	DefaultHourlyWindow  = 24
	DefaultTopLimit      = 10

	// Redis keys and channels
	RedisKeyPrefix            = "guildkeeper:"
	TicketLifecycleChannel    = RedisKeyPrefix + "ticket:lifecycle"
	TicketMessageLogKeyFormat = RedisKeyPrefix + "ticket:%d:messages"
	AnalyticsEventStream      = RedisKeyPrefix + "analytics:events"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgValidationFailed    = "Validation failed"
)
