package usecases

import (
	"context"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
	"github.com/guildkeeper/guildkeeper/internal/shared/metrics"
)

type RecordServerHealthCommand struct {
	GuildID           string
	MemberCount       int64
	OnlineCount       int64
	BotLatencyMs      int64
	APIResponseTimeMs int64
	MemoryUsageMB     float64
	CPUUsage          float64
	UptimeSeconds     int64
	ErrorCount        int64
}

// RecordServerHealthUseCase appends one health snapshot. No rollup is derived.
type RecordServerHealthUseCase struct {
	repo   analytics.Repository
	logger logger.Interface
}

func NewRecordServerHealthUseCase(repo analytics.Repository, logger logger.Interface) *RecordServerHealthUseCase {
	return &RecordServerHealthUseCase{repo: repo, logger: logger}
}

func (uc *RecordServerHealthUseCase) Execute(ctx context.Context, cmd RecordServerHealthCommand) error {
	if cmd.GuildID == "" {
		return errors.NewValidationError("guild ID is required")
	}
	if cmd.MemberCount < 0 || cmd.OnlineCount < 0 || cmd.ErrorCount < 0 {
		return errors.NewValidationError("health counters must not be negative")
	}

	snapshot := &analytics.HealthSnapshot{
		GuildID:           cmd.GuildID,
		MemberCount:       cmd.MemberCount,
		OnlineCount:       cmd.OnlineCount,
		BotLatencyMs:      cmd.BotLatencyMs,
		APIResponseTimeMs: cmd.APIResponseTimeMs,
		MemoryUsageMB:     cmd.MemoryUsageMB,
		CPUUsage:          cmd.CPUUsage,
		UptimeSeconds:     cmd.UptimeSeconds,
		ErrorCount:        cmd.ErrorCount,
		CreatedAt:         biztime.NowUTC(),
	}

	err := uc.repo.InsertHealth(ctx, snapshot)
	metrics.AnalyticsWrites.WithLabelValues(constants.TableServerHealth, metrics.Outcome(err)).Inc()
	if err != nil {
		uc.logger.Errorw("failed to record server health", "guild_id", cmd.GuildID, "error", err)
		return errors.NewInternalError("failed to record server health").WithCause(err)
	}
	return nil
}
