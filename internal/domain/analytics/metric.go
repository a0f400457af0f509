// Package analytics holds the server analytics model: raw activity events,
// the rollup columns they feed, and the read models built from them.
package analytics

import "fmt"

// MetricType is the kind of a raw analytics event.
type MetricType string

const (
	MetricMessageCount  MetricType = "message_count"
	MetricCommandUsage  MetricType = "command_usage"
	MetricMemberJoin    MetricType = "member_join"
	MetricMemberLeave   MetricType = "member_leave"
	MetricVoiceActivity MetricType = "voice_activity"
	MetricReactionCount MetricType = "reaction_count"
)

// DailyColumn is a counter column of daily_server_stats.
type DailyColumn string

const (
	DailyTotalMessages  DailyColumn = "total_messages"
	DailyTotalMembers   DailyColumn = "total_members"
	DailyActiveMembers  DailyColumn = "active_members"
	DailyTotalCommands  DailyColumn = "total_commands"
	DailyPeakOnline     DailyColumn = "peak_online"
	DailyVoiceMinutes   DailyColumn = "voice_minutes"
	DailyReactionsGiven DailyColumn = "reactions_given"
	DailyNewMembers     DailyColumn = "new_members"
	DailyLeftMembers    DailyColumn = "left_members"
)

// HourlyColumn is a counter column of hourly_activity.
type HourlyColumn string

const (
	HourlyMessageCount HourlyColumn = "message_count"
	HourlyCommandCount HourlyColumn = "command_count"
	HourlyVoiceUsers   HourlyColumn = "voice_users"
)

var dailyColumns = map[MetricType]DailyColumn{
	MetricMessageCount:  DailyTotalMessages,
	MetricCommandUsage:  DailyTotalCommands,
	MetricMemberJoin:    DailyNewMembers,
	MetricMemberLeave:   DailyLeftMembers,
	MetricVoiceActivity: DailyVoiceMinutes,
	MetricReactionCount: DailyReactionsGiven,
}

var hourlyColumns = map[MetricType]HourlyColumn{
	MetricMessageCount: HourlyMessageCount,
	MetricCommandUsage: HourlyCommandCount,
}

// AllMetricTypes lists the known metric kinds.
func AllMetricTypes() []MetricType {
	return []MetricType{
		MetricMessageCount,
		MetricCommandUsage,
		MetricMemberJoin,
		MetricMemberLeave,
		MetricVoiceActivity,
		MetricReactionCount,
	}
}

func (m MetricType) String() string {
	return string(m)
}

func (m MetricType) IsKnown() bool {
	_, ok := dailyColumns[m]
	return ok
}

// DailyColumn returns the daily rollup column fed by m. Unknown kinds roll
// into total_messages and report known=false.
func (m MetricType) DailyColumn() (col DailyColumn, known bool) {
	col, known = dailyColumns[m]
	if !known {
		return DailyTotalMessages, false
	}
	return col, true
}

// HourlyColumn returns the hourly rollup column fed by m; ok is false for
// kinds that have no hourly bucket.
func (m MetricType) HourlyColumn() (col HourlyColumn, ok bool) {
	col, ok = hourlyColumns[m]
	return col, ok
}

func ParseMetricType(s string) (MetricType, error) {
	m := MetricType(s)
	if !m.IsKnown() {
		return "", fmt.Errorf("unknown metric type: %s", s)
	}
	return m, nil
}

var validDailyColumns = map[DailyColumn]bool{
	DailyTotalMessages:  true,
	DailyTotalMembers:   true,
	DailyActiveMembers:  true,
	DailyTotalCommands:  true,
	DailyPeakOnline:     true,
	DailyVoiceMinutes:   true,
	DailyReactionsGiven: true,
	DailyNewMembers:     true,
	DailyLeftMembers:    true,
}

// IsValid guards column names before they are interpolated into SQL.
func (c DailyColumn) IsValid() bool {
	return validDailyColumns[c]
}

func (c HourlyColumn) IsValid() bool {
	return c == HourlyMessageCount || c == HourlyCommandCount || c == HourlyVoiceUsers
}
