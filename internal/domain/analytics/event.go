package analytics

import (
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
)

// Event is one append-only row of server_analytics.
type Event struct {
	ID          uint
	GuildID     string
	MetricType  MetricType
	ChannelID   string
	UserID      string
	CommandName string
	Value       int64
	Metadata    string
	CreatedAt   time.Time
}

// NewEvent builds an event stamped now. A zero value counts as 1.
func NewEvent(guildID string, metric MetricType, value int64) (*Event, error) {
	if guildID == "" {
		return nil, fmt.Errorf("guild ID is required")
	}
	if metric == "" {
		return nil, fmt.Errorf("metric type is required")
	}
	if value < 0 {
		return nil, fmt.Errorf("value must not be negative")
	}
	if value == 0 {
		value = 1
	}
	return &Event{
		GuildID:    guildID,
		MetricType: metric,
		Value:      value,
		CreatedAt:  biztime.NowUTC(),
	}, nil
}

// CommandExecution is one append-only row of command_analytics.
type CommandExecution struct {
	ID              uint
	GuildID         string
	CommandName     string
	UserID          string
	ChannelID       string
	Success         bool
	ExecutionTimeMs int64
	ErrorMessage    string
	CreatedAt       time.Time
}

// HealthSnapshot is one append-only row of server_health.
type HealthSnapshot struct {
	ID                uint
	GuildID           string
	MemberCount       int64
	OnlineCount       int64
	BotLatencyMs      int64
	APIResponseTimeMs int64
	MemoryUsageMB     float64
	CPUUsage          float64
	UptimeSeconds     int64
	ErrorCount        int64
	CreatedAt         time.Time
}

// ChannelRef snapshots a channel's identity at write time.
type ChannelRef struct {
	ID   string
	Name string
	Type string
}

// ChannelDelta is an additive change to one channel_analytics row.
type ChannelDelta struct {
	GuildID      string
	Channel      ChannelRef
	Date         string
	DayStart     time.Time
	Messages     int64
	VoiceMinutes int64
}

// MemberDelta is an additive change to one member_engagement row.
type MemberDelta struct {
	GuildID        string
	UserID         string
	Date           string
	Messages       int64
	Commands       int64
	Reactions      int64
	VoiceMinutes   int64
	LastActivityAt time.Time
}
