package scheduler

import (
	"context"
	stderrors "errors"
	"fmt"
	"runtime"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/application/analytics/usecases"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

// RuntimeSample is the process-level part of a health snapshot.
type RuntimeSample struct {
	MemoryUsageMB     float64
	UptimeSeconds     int64
	APIResponseTimeMs int64
	BotLatencyMs      int64
	FailedPings       int64
}

// RuntimeProbe measures heap usage, uptime and dependency round trips.
type RuntimeProbe struct {
	startedAt time.Time
	dbPing    PingFunc
	redisPing PingFunc
	now       func() time.Time
}

// NewRuntimeProbe creates a probe. Either ping may be nil; its latency is
// then reported as zero.
func NewRuntimeProbe(dbPing, redisPing PingFunc) *RuntimeProbe {
	return &RuntimeProbe{
		startedAt: biztime.NowUTC(),
		dbPing:    dbPing,
		redisPing: redisPing,
		now:       biztime.NowUTC,
	}
}

// Sample reads the current figures. A failed ping reports -1.
func (p *RuntimeProbe) Sample(ctx context.Context) RuntimeSample {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	sample := RuntimeSample{
		MemoryUsageMB: float64(mem.HeapInuse) / (1024 * 1024),
		UptimeSeconds: int64(p.now().Sub(p.startedAt).Seconds()),
	}

	var failed bool
	sample.APIResponseTimeMs, failed = timePing(ctx, p.dbPing)
	if failed {
		sample.FailedPings++
	}
	sample.BotLatencyMs, failed = timePing(ctx, p.redisPing)
	if failed {
		sample.FailedPings++
	}
	return sample
}

func timePing(ctx context.Context, ping PingFunc) (int64, bool) {
	if ping == nil {
		return 0, false
	}
	start := time.Now()
	if err := ping(ctx); err != nil {
		return -1, true
	}
	return time.Since(start).Milliseconds(), false
}

// GuildStats is what the gateway knows about one guild's population.
type GuildStats struct {
	GuildID     string
	MemberCount int64
	OnlineCount int64
}

// GuildStatsProvider lists the guilds to snapshot.
type GuildStatsProvider interface {
	GuildStats(ctx context.Context) ([]GuildStats, error)
}

// GuildLister is satisfied by the guild settings repository.
type GuildLister interface {
	ListGuildIDs(ctx context.Context) ([]string, error)
}

// SettingsGuildStatsProvider snapshots every configured guild with zero
// member counts. It stands in until a gateway connection supplies real ones.
type SettingsGuildStatsProvider struct {
	lister GuildLister
}

func NewSettingsGuildStatsProvider(lister GuildLister) *SettingsGuildStatsProvider {
	return &SettingsGuildStatsProvider{lister: lister}
}

func (p *SettingsGuildStatsProvider) GuildStats(ctx context.Context) ([]GuildStats, error) {
	ids, err := p.lister.ListGuildIDs(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]GuildStats, 0, len(ids))
	for _, id := range ids {
		stats = append(stats, GuildStats{GuildID: id})
	}
	return stats, nil
}

// HealthJob records one health snapshot per guild and refreshes the daily
// member columns when member counts are known.
type HealthJob struct {
	probe        *RuntimeProbe
	guilds       GuildStatsProvider
	recorder     HealthRecorder
	snapshots    SnapshotRefresher
	logger       logger.Interface
	takeFailures func() int64
}

// NewHealthJob creates a HealthJob. snapshots may be nil.
func NewHealthJob(
	probe *RuntimeProbe,
	guilds GuildStatsProvider,
	recorder HealthRecorder,
	snapshots SnapshotRefresher,
	log logger.Interface,
) *HealthJob {
	return &HealthJob{
		probe:        probe,
		guilds:       guilds,
		recorder:     recorder,
		snapshots:    snapshots,
		logger:       log,
		takeFailures: metrics.TakeFailureCount,
	}
}

// Run returns how many snapshots were stored. Failures for one guild do not
// stop the others; they are joined into the returned error.
func (j *HealthJob) Run(ctx context.Context) (int, error) {
	stats, err := j.guilds.GuildStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list guilds: %w", err)
	}

	sample := j.probe.Sample(ctx)
	errorCount := j.takeFailures() + sample.FailedPings

	var (
		recorded int
		errs     []error
	)
	for _, g := range stats {
		err := j.recorder.Execute(ctx, usecases.RecordServerHealthCommand{
			GuildID:           g.GuildID,
			MemberCount:       g.MemberCount,
			OnlineCount:       g.OnlineCount,
			BotLatencyMs:      sample.BotLatencyMs,
			APIResponseTimeMs: sample.APIResponseTimeMs,
			MemoryUsageMB:     sample.MemoryUsageMB,
			UptimeSeconds:     sample.UptimeSeconds,
			ErrorCount:        errorCount,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("guild %s: %w", g.GuildID, err))
			continue
		}
		recorded++

		if j.snapshots != nil && g.MemberCount > 0 {
			if err := j.snapshots.RefreshDailySnapshot(ctx, g.GuildID, g.MemberCount, g.OnlineCount); err != nil {
				j.logger.Warnw("failed to refresh daily snapshot", "guild_id", g.GuildID, "error", err)
			}
		}
	}
	return recorded, stderrors.Join(errs...)
}
