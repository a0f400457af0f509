package models

// All returns one value of every table model, in creation order.
func All() []interface{} {
	return []interface{}{
		&GuildSettingsModel{},
		&TicketModel{},
		&TicketTranscriptModel{},
		&TicketStaffActivityModel{},
		&ServerAnalyticsModel{},
		&DailyServerStatsModel{},
		&HourlyActivityModel{},
		&ChannelAnalyticsModel{},
		&CommandAnalyticsModel{},
		&MemberEngagementModel{},
		&ServerHealthModel{},
	}
}
