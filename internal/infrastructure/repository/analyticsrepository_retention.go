package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/persistence/models"
	"github.com/guildkeeper/guildkeeper/internal/shared/constants"
	db "github.com/guildkeeper/guildkeeper/internal/shared/db"
)

type retentionTarget struct {
	table string
	model interface{}
	byDay bool
}

// retentionTargets lists every analytics table. Rollups are keyed by date;
// append-only tables by created_at.
var retentionTargets = []retentionTarget{
	{constants.TableServerAnalytics, &models.ServerAnalyticsModel{}, false},
	{constants.TableCommandAnalytics, &models.CommandAnalyticsModel{}, false},
	{constants.TableServerHealth, &models.ServerHealthModel{}, false},
	{constants.TableDailyServerStats, &models.DailyServerStatsModel{}, true},
	{constants.TableHourlyActivity, &models.HourlyActivityModel{}, true},
	{constants.TableChannelAnalytics, &models.ChannelAnalyticsModel{}, true},
	{constants.TableMemberEngagement, &models.MemberEngagementModel{}, true},
}

// DeleteOlderThan deletes from each table in turn. On failure the counts of
// the tables already cleaned are returned along with the error.
func (r *AnalyticsRepository) DeleteOlderThan(ctx context.Context, cutoffDate string, cutoff time.Time) (analytics.CleanupResult, error) {
	result := make(analytics.CleanupResult, len(retentionTargets))
	tx := db.GetTxFromContext(ctx, r.db)

	for _, target := range retentionTargets {
		q := tx.Where("created_at < ?", cutoff.UnixMilli())
		if target.byDay {
			q = tx.Where("date < ?", cutoffDate)
		}
		res := q.Delete(target.model)
		if res.Error != nil {
			return result, fmt.Errorf("failed to clean %s: %w", target.table, res.Error)
		}
		result[target.table] = res.RowsAffected
		r.logger.Debugw("cleaned analytics table", "table", target.table, "rows", res.RowsAffected)
	}
	return result, nil
}
