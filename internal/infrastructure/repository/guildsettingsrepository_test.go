package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

func TestGuildSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGuildSettingsRepository(setupTestDB(t), logger.NewNopLogger())

	_, err := repo.GetByGuildID(ctx, "G1")
	assert.ErrorIs(t, err, setting.ErrSettingsNotFound)

	s := setting.DefaultGuildSettings("G1")
	roles := []string{"R1", "R2"}
	require.NoError(t, s.Apply(setting.Patch{StaffRoleIDs: &roles}))
	require.NoError(t, repo.Upsert(ctx, s))

	loaded, err := repo.GetByGuildID(ctx, "G1")
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "R2"}, loaded.StaffRoleIDs())
	assert.True(t, loaded.AnalyticsEnabled())
	assert.Equal(t, 1, loaded.MaxOpenTicketsPerUser())

	disabled := false
	maxOpen := 3
	require.NoError(t, loaded.Apply(setting.Patch{AnalyticsEnabled: &disabled, MaxOpenTicketsPerUser: &maxOpen}))
	require.NoError(t, repo.Upsert(ctx, loaded))

	reloaded, err := repo.GetByGuildID(ctx, "G1")
	require.NoError(t, err)
	assert.False(t, reloaded.AnalyticsEnabled())
	assert.Equal(t, 3, reloaded.MaxOpenTicketsPerUser())
	assert.Equal(t, []string{"R1", "R2"}, reloaded.StaffRoleIDs())
	assert.Equal(t, s.CreatedAt().UnixMilli(), reloaded.CreatedAt().UnixMilli())

	require.NoError(t, repo.Upsert(ctx, setting.DefaultGuildSettings("G0")))
	ids, err := repo.ListGuildIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"G0", "G1"}, ids)
}
