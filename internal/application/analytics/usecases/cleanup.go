package usecases

import (
	"context"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/biztime"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// CleanOldDataUseCase deletes analytics rows older than the retention window.
type CleanOldDataUseCase struct {
	repo   analytics.RetentionRepository
	logger logger.Interface
	now    func() time.Time
}

func NewCleanOldDataUseCase(repo analytics.RetentionRepository, logger logger.Interface) *CleanOldDataUseCase {
	return &CleanOldDataUseCase{repo: repo, logger: logger, now: biztime.NowUTC}
}

// Execute keeps the last daysToKeep days. Zero means the default of 90.
func (uc *CleanOldDataUseCase) Execute(ctx context.Context, daysToKeep int) (analytics.CleanupResult, error) {
	if daysToKeep == 0 {
		daysToKeep = constants.DefaultRetentionDays
	}
	if daysToKeep < 1 {
		return nil, errors.NewValidationError("days to keep must be at least 1")
	}

	cutoff := uc.now().AddDate(0, 0, -daysToKeep)
	cutoffDate := biztime.DateKey(cutoff)

	result, err := uc.repo.DeleteOlderThan(ctx, cutoffDate, cutoff)
	if err != nil {
		uc.logger.Errorw("analytics cleanup failed", "cutoff_date", cutoffDate, "error", err)
		return result, errors.NewInternalError("failed to clean old analytics data").WithCause(err)
	}

	uc.logger.Infow("analytics cleanup completed",
		"days_to_keep", daysToKeep,
		"cutoff_date", cutoffDate,
		"rows_deleted", result.Total(),
	)
	return result, nil
}
