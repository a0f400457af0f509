package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

const (
	maxWindowDays  = 365
	maxWindowHours = 7 * 24
	maxTopLimit    = 100
)

// QueryUseCase serves the time-windowed read models of one guild.
type QueryUseCase struct {
	repo   analytics.QueryRepository
	logger logger.Interface
	now    func() time.Time
}

func NewQueryUseCase(repo analytics.QueryRepository, logger logger.Interface) *QueryUseCase {
	return &QueryUseCase{repo: repo, logger: logger, now: biztime.NowUTC}
}

func normalizeDays(days int) (int, error) {
	if days == 0 {
		return constants.DefaultOverviewDays, nil
	}
	if days < 1 || days > maxWindowDays {
		return 0, errors.NewValidationError(fmt.Sprintf("days must be between 1 and %d", maxWindowDays))
	}
	return days, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultTopLimit
	}
	if limit > maxTopLimit {
		return maxTopLimit
	}
	return limit
}

func (uc *QueryUseCase) queryFailed(op, guildID string, err error) error {
	uc.logger.Errorw("analytics query failed", "query", op, "guild_id", guildID, "error", err)
	return errors.NewInternalError("failed to load " + op).WithCause(err)
}

// GetServerOverview sums the daily rollups of the trailing window of days.
func (uc *QueryUseCase) GetServerOverview(ctx context.Context, guildID string, days int) (*analytics.ServerOverview, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	overview, err := uc.repo.GetServerOverview(ctx, guildID, biztime.WindowStartDateKey(uc.now(), days))
	if err != nil {
		return nil, uc.queryFailed("server overview", guildID, err)
	}
	overview.GuildID = guildID
	overview.Days = days
	return overview, nil
}

// GetHourlyActivity returns the hourly buckets of the trailing window of hours,
// the current hour included.
func (uc *QueryUseCase) GetHourlyActivity(ctx context.Context, guildID string, hours int) ([]analytics.HourlyBucket, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	if hours == 0 {
		hours = constants.DefaultHourlyWindow
	}
	if hours < 1 || hours > maxWindowHours {
		return nil, errors.NewValidationError(fmt.Sprintf("hours must be between 1 and %d", maxWindowHours))
	}

	since := uc.now().Add(-time.Duration(hours-1) * time.Hour)
	buckets, err := uc.repo.GetHourlyActivity(ctx, guildID, biztime.DateKey(since), biztime.HourOf(since))
	if err != nil {
		return nil, uc.queryFailed("hourly activity", guildID, err)
	}
	return buckets, nil
}

func (uc *QueryUseCase) GetTopChannels(ctx context.Context, guildID string, days, limit int) ([]analytics.ChannelStat, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	channels, err := uc.repo.GetTopChannels(ctx, guildID, biztime.WindowStartDateKey(uc.now(), days), normalizeLimit(limit))
	if err != nil {
		return nil, uc.queryFailed("top channels", guildID, err)
	}
	return channels, nil
}

func (uc *QueryUseCase) GetCommandStats(ctx context.Context, guildID string, days, limit int) ([]analytics.CommandStat, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	since := biztime.StartOfDayUTC(uc.now().AddDate(0, 0, -(days - 1)))
	stats, err := uc.repo.GetCommandStats(ctx, guildID, since, normalizeLimit(limit))
	if err != nil {
		return nil, uc.queryFailed("command stats", guildID, err)
	}
	return stats, nil
}

func (uc *QueryUseCase) GetMemberEngagement(ctx context.Context, guildID string, days, limit int) ([]analytics.MemberEngagementStat, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}

	members, err := uc.repo.GetMemberEngagement(ctx, guildID, biztime.WindowStartDateKey(uc.now(), days), normalizeLimit(limit))
	if err != nil {
		return nil, uc.queryFailed("member engagement", guildID, err)
	}
	return members, nil
}

// GetServerHealthHistory returns snapshots of the trailing window, newest
// first. A non-positive limit returns every snapshot in the window.
func (uc *QueryUseCase) GetServerHealthHistory(ctx context.Context, guildID string, days, limit int) ([]analytics.HealthSnapshot, error) {
	if guildID == "" {
		return nil, errors.NewValidationError("guild ID is required")
	}
	days, err := normalizeDays(days)
	if err != nil {
		return nil, err
	}
	since := uc.now().Add(-time.Duration(days) * 24 * time.Hour)
	history, err := uc.repo.GetHealthHistory(ctx, guildID, since, limit)
	if err != nil {
		return nil, uc.queryFailed("server health history", guildID, err)
	}
	return history, nil
}
