// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/guildkeeper/guildkeeper/internal/application/analytics/usecases"
	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// SchedulerManager owns the single gocron scheduler of the worker process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// Cron expressions are evaluated in the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Analytics Jobs
// ========================================

// RetentionCleaner deletes analytics rows outside the retention window.
type RetentionCleaner interface {
	Execute(ctx context.Context, daysToKeep int) (analytics.CleanupResult, error)
}

// HealthRecorder stores one health snapshot.
type HealthRecorder interface {
	Execute(ctx context.Context, cmd usecases.RecordServerHealthCommand) error
}

// SnapshotRefresher updates the member columns of today's daily stats row.
type SnapshotRefresher interface {
	RefreshDailySnapshot(ctx context.Context, guildID string, totalMembers, onlineMembers int64) error
}

// AnalyticsJobOptions configures RegisterAnalyticsJobs.
type AnalyticsJobOptions struct {
	RetentionDays  int
	CleanupHour    int
	HealthInterval time.Duration
}

func (o AnalyticsJobOptions) withDefaults() AnalyticsJobOptions {
	if o.RetentionDays <= 0 {
		o.RetentionDays = constants.DefaultRetentionDays
	}
	if o.CleanupHour < 0 || o.CleanupHour > 23 {
		o.CleanupHour = 3
	}
	if o.HealthInterval <= 0 {
		o.HealthInterval = 5 * time.Minute
	}
	return o
}

// RegisterAnalyticsJobs registers analytics maintenance jobs:
// - Retention cleanup: daily at CleanupHour business timezone
// - Health snapshot: every HealthInterval for each known guild, start immediately
func (m *SchedulerManager) RegisterAnalyticsJobs(
	cleaner RetentionCleaner,
	health *HealthJob,
	opts AnalyticsJobOptions,
) error {
	opts = opts.withDefaults()

	_, err := m.scheduler.NewJob(
		gocron.CronJob(fmt.Sprintf("0 %d * * *", opts.CleanupHour), false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.executeRetentionCleanup(ctx, cleaner, opts.RetentionDays)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("analytics", "cleanup"),
		gocron.WithName("analytics-retention-cleanup"),
	)
	if err != nil {
		return err
	}

	if health != nil {
		_, err = m.scheduler.NewJob(
			gocron.DurationJob(opts.HealthInterval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()
				m.executeHealthSnapshot(ctx, health)
			}),
			gocron.WithStartAt(gocron.WithStartImmediately()),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithTags("analytics", "health"),
			gocron.WithName("analytics-health-snapshot"),
		)
		if err != nil {
			return err
		}
	}

	m.logger.Infow("registered analytics jobs",
		"cleanup", fmt.Sprintf("%02d:00", opts.CleanupHour),
		"retention_days", opts.RetentionDays,
		"health_interval", opts.HealthInterval.String(),
	)
	return nil
}

func (m *SchedulerManager) executeRetentionCleanup(ctx context.Context, cleaner RetentionCleaner, retentionDays int) {
	m.logger.Debugw("executing analytics retention cleanup",
		"retention_days", retentionDays,
	)

	startTime := biztime.NowUTC()
	result, err := cleaner.Execute(ctx, retentionDays)
	if err != nil {
		m.logger.Errorw("analytics retention cleanup failed",
			"error", err,
			"duration", time.Since(startTime),
			"retention_days", retentionDays,
		)
		return
	}

	m.logger.Infow("analytics retention cleanup completed successfully",
		"duration", time.Since(startTime),
		"retention_days", retentionDays,
		"rows_deleted", result.Total(),
	)
}

func (m *SchedulerManager) executeHealthSnapshot(ctx context.Context, job *HealthJob) {
	recorded, err := job.Run(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("health snapshot failed", "error", err, "recorded", recorded)
		return
	}

	m.logger.Debugw("health snapshot recorded", "guilds", recorded)
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
