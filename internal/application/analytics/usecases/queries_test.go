package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/analytics"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

func newTestQueries(repo analytics.QueryRepository) *QueryUseCase {
	uc := NewQueryUseCase(repo, logger.NewNopLogger())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestQueryUseCase_Windows(t *testing.T) {
	repo := &mockQueryRepository{}
	uc := newTestQueries(repo)
	ctx := context.Background()

	overview, err := uc.GetServerOverview(ctx, "G1", 0)
	require.NoError(t, err)
	assert.Equal(t, 7, overview.Days)
	assert.Equal(t, "G1", overview.GuildID)
	assert.Equal(t, "2026-04-28", repo.overviewSince)

	_, err = uc.GetHourlyActivity(ctx, "G1", 0)
	require.NoError(t, err)
	assert.Equal(t, [2]interface{}{"2026-05-03", 15}, repo.hourlySince)

	_, err = uc.GetCommandStats(ctx, "G1", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), repo.commandSince)

	_, err = uc.GetTopChannels(ctx, "G1", 30, 1000)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 100}, repo.limits)
}

func TestQueryUseCase_Validation(t *testing.T) {
	uc := newTestQueries(&mockQueryRepository{})
	ctx := context.Background()

	_, err := uc.GetServerOverview(ctx, "", 7)
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.GetServerOverview(ctx, "G1", 400)
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.GetHourlyActivity(ctx, "G1", 500)
	assert.True(t, errors.IsValidationError(err))
}

func TestQueryUseCase_RepositoryFailure(t *testing.T) {
	uc := newTestQueries(&mockQueryRepository{err: assert.AnError})

	_, err := uc.GetServerOverview(context.Background(), "G1", 7)

	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInternal, errors.GetAppError(err).Type)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestExportDataUseCase(t *testing.T) {
	repo := &mockQueryRepository{}
	uc := NewExportDataUseCase(newTestQueries(repo), logger.NewNopLogger())

	export, err := uc.Execute(context.Background(), "G1", 3)

	require.NoError(t, err)
	assert.Contains(t, export.ExportID, "exp_")
	assert.Equal(t, 3, export.Days)
	assert.Equal(t, int64(120), export.Overview.TotalMessages)
	assert.Len(t, export.Hourly, 1)
	assert.Len(t, export.TopChannels, 1)
	assert.Len(t, export.Commands, 1)
	assert.Len(t, export.Members, 1)
	assert.Len(t, export.Health, 1)
	assert.False(t, export.ExportedAt.IsZero())
	assert.Equal(t, fixedNow.Add(-72*time.Hour), repo.healthSince)
	assert.Zero(t, repo.healthLimit)
}

func TestQueryUseCase_HealthHistoryLimit(t *testing.T) {
	repo := &mockQueryRepository{}
	uc := newTestQueries(repo)

	_, err := uc.GetServerHealthHistory(context.Background(), "G1", 7, 0)
	require.NoError(t, err)
	assert.Zero(t, repo.healthLimit)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), repo.healthSince)

	_, err = uc.GetServerHealthHistory(context.Background(), "G1", 7, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.healthLimit)
}

func TestCleanOldDataUseCase(t *testing.T) {
	repo := &mockRetentionRepository{result: analytics.CleanupResult{"server_analytics": 10, "hourly_activity": 4}}
	uc := NewCleanOldDataUseCase(repo, logger.NewNopLogger())
	uc.now = func() time.Time { return fixedNow }

	result, err := uc.Execute(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, int64(14), result.Total())
	assert.Equal(t, "2026-02-03", repo.cutoffDate)
	assert.Equal(t, fixedNow.AddDate(0, 0, -90), repo.cutoff)

	_, err = uc.Execute(context.Background(), -5)
	assert.True(t, errors.IsValidationError(err))
}
