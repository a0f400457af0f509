package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
)

// memoryAnalyticsRepository keeps rollup counters in maps keyed like the
// unique indexes of the real tables.
type memoryAnalyticsRepository struct {
	mu sync.Mutex

	failTables map[string]error

	events   []*analytics.Event
	commands []*analytics.CommandExecution
	health   []*analytics.HealthSnapshot
	daily    map[string]int64
	hourly   map[string]int64
	channels map[string]analytics.ChannelDelta
	members  map[string]analytics.MemberDelta
	snapshot map[string][2]int64
}

func newMemoryAnalyticsRepository() *memoryAnalyticsRepository {
	return &memoryAnalyticsRepository{
		failTables: map[string]error{},
		daily:      map[string]int64{},
		hourly:     map[string]int64{},
		channels:   map[string]analytics.ChannelDelta{},
		members:    map[string]analytics.MemberDelta{},
		snapshot:   map[string][2]int64{},
	}
}

func dailyKey(guildID, date string, col analytics.DailyColumn) string {
	return fmt.Sprintf("%s|%s|%s", guildID, date, col)
}

func hourlyKey(guildID, date string, hour int, col analytics.HourlyColumn) string {
	return fmt.Sprintf("%s|%s|%02d|%s", guildID, date, hour, col)
}

func (m *memoryAnalyticsRepository) InsertEvent(ctx context.Context, event *analytics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["server_analytics"]; err != nil {
		return err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memoryAnalyticsRepository) InsertCommand(ctx context.Context, cmd *analytics.CommandExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["command_analytics"]; err != nil {
		return err
	}
	m.commands = append(m.commands, cmd)
	return nil
}

func (m *memoryAnalyticsRepository) InsertHealth(ctx context.Context, snapshot *analytics.HealthSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["server_health"]; err != nil {
		return err
	}
	m.health = append(m.health, snapshot)
	return nil
}

func (m *memoryAnalyticsRepository) IncrementDaily(ctx context.Context, guildID, date string, col analytics.DailyColumn, inc int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["daily_server_stats"]; err != nil {
		return err
	}
	m.daily[dailyKey(guildID, date, col)] += inc
	return nil
}

func (m *memoryAnalyticsRepository) IncrementHourly(ctx context.Context, guildID, date string, hour int, col analytics.HourlyColumn, inc int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["hourly_activity"]; err != nil {
		return err
	}
	m.hourly[hourlyKey(guildID, date, hour, col)] += inc
	return nil
}

func (m *memoryAnalyticsRepository) UpsertChannel(ctx context.Context, delta analytics.ChannelDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["channel_analytics"]; err != nil {
		return err
	}
	key := delta.GuildID + "|" + delta.Channel.ID + "|" + delta.Date
	cur := m.channels[key]
	cur.GuildID, cur.Channel, cur.Date, cur.DayStart = delta.GuildID, delta.Channel, delta.Date, delta.DayStart
	cur.Messages += delta.Messages
	cur.VoiceMinutes += delta.VoiceMinutes
	m.channels[key] = cur
	return nil
}

func (m *memoryAnalyticsRepository) UpsertMember(ctx context.Context, delta analytics.MemberDelta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failTables["member_engagement"]; err != nil {
		return err
	}
	key := delta.GuildID + "|" + delta.UserID + "|" + delta.Date
	cur := m.members[key]
	cur.GuildID, cur.UserID, cur.Date, cur.LastActivityAt = delta.GuildID, delta.UserID, delta.Date, delta.LastActivityAt
	cur.Messages += delta.Messages
	cur.Commands += delta.Commands
	cur.Reactions += delta.Reactions
	cur.VoiceMinutes += delta.VoiceMinutes
	m.members[key] = cur
	return nil
}

func (m *memoryAnalyticsRepository) RefreshDailySnapshot(ctx context.Context, guildID, date string, totalMembers, onlineMembers int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := guildID + "|" + date
	cur := m.snapshot[key]
	cur[0] = totalMembers
	if onlineMembers > cur[1] {
		cur[1] = onlineMembers
	}
	m.snapshot[key] = cur
	return nil
}

func (m *memoryAnalyticsRepository) Daily(guildID, date string, col analytics.DailyColumn) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.daily[dailyKey(guildID, date, col)]
}

func (m *memoryAnalyticsRepository) Hourly(guildID, date string, hour int, col analytics.HourlyColumn) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hourly[hourlyKey(guildID, date, hour, col)]
}

type mockQueryRepository struct {
	overviewSince string
	hourlySince   [2]interface{}
	commandSince  time.Time
	healthSince   time.Time
	healthLimit   int
	limits        []int
	err           error
}

func (m *mockQueryRepository) GetServerOverview(ctx context.Context, guildID, sinceDate string) (*analytics.ServerOverview, error) {
	m.overviewSince = sinceDate
	if m.err != nil {
		return nil, m.err
	}
	return &analytics.ServerOverview{TotalMessages: 120, TotalCommands: 14}, nil
}

func (m *mockQueryRepository) GetHourlyActivity(ctx context.Context, guildID, sinceDate string, sinceHour int) ([]analytics.HourlyBucket, error) {
	m.hourlySince = [2]interface{}{sinceDate, sinceHour}
	return []analytics.HourlyBucket{{Date: sinceDate, Hour: sinceHour, MessageCount: 3}}, m.err
}

func (m *mockQueryRepository) GetTopChannels(ctx context.Context, guildID, sinceDate string, limit int) ([]analytics.ChannelStat, error) {
	m.limits = append(m.limits, limit)
	return []analytics.ChannelStat{{ChannelID: "C1", MessageCount: 80}}, m.err
}

func (m *mockQueryRepository) GetCommandStats(ctx context.Context, guildID string, since time.Time, limit int) ([]analytics.CommandStat, error) {
	m.commandSince = since
	m.limits = append(m.limits, limit)
	return []analytics.CommandStat{{CommandName: "ticket", Uses: 14}}, m.err
}

func (m *mockQueryRepository) GetMemberEngagement(ctx context.Context, guildID, sinceDate string, limit int) ([]analytics.MemberEngagementStat, error) {
	m.limits = append(m.limits, limit)
	return []analytics.MemberEngagementStat{{UserID: "U1", MessagesSent: 40}}, m.err
}

func (m *mockQueryRepository) GetHealthHistory(ctx context.Context, guildID string, since time.Time, limit int) ([]analytics.HealthSnapshot, error) {
	m.healthSince = since
	m.healthLimit = limit
	return []analytics.HealthSnapshot{{GuildID: guildID, MemberCount: 50}}, m.err
}

type mockRetentionRepository struct {
	cutoffDate string
	cutoff     time.Time
	result     analytics.CleanupResult
	err        error
}

func (m *mockRetentionRepository) DeleteOlderThan(ctx context.Context, cutoffDate string, cutoff time.Time) (analytics.CleanupResult, error) {
	m.cutoffDate = cutoffDate
	m.cutoff = cutoff
	return m.result, m.err
}

type mockEventSink struct {
	mu     sync.Mutex
	err    error
	events []*analytics.Event
}

func (m *mockEventSink) Publish(ctx context.Context, event *analytics.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

type mockSettingsProvider struct {
	analyticsEnabled bool
	err              error
}

func (m *mockSettingsProvider) GetGuildSettings(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := setting.DefaultGuildSettings(guildID)
	enabled := m.analyticsEnabled
	if err := s.Apply(setting.Patch{AnalyticsEnabled: &enabled}); err != nil {
		return nil, err
	}
	return s, nil
}
