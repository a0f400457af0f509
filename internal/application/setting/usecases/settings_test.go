package usecases

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guildkeeper/guildkeeper/internal/application/setting/dto"
	"github.com/guildkeeper/guildkeeper/internal/domain/setting"
	"github.com/guildkeeper/guildkeeper/internal/shared/errors"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

func TestGetSettingsUseCase_DefaultsWhenMissing(t *testing.T) {
	uc := NewGetSettingsUseCase(&mockSettingRepository{}, logger.NewNopLogger())

	got, err := uc.Execute(context.Background(), "G1")
	require.NoError(t, err)
	assert.Equal(t, "G1", got.GuildID)
	assert.Equal(t, 1, got.MaxOpenTicketsPerUser)
	assert.True(t, got.AnalyticsEnabled)
	assert.Empty(t, got.StaffRoleIDs)
}

func TestGetSettingsUseCase_RepositoryFailure(t *testing.T) {
	repo := &mockSettingRepository{
		GetByGuildIDFunc: func(ctx context.Context, guildID string) (*setting.GuildSettings, error) {
			return nil, stderrors.New("database is locked")
		},
	}
	uc := NewGetSettingsUseCase(repo, logger.NewNopLogger())

	_, err := uc.GetGuildSettings(context.Background(), "G1")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeInternal, errors.GetAppError(err).Type)
}

func TestGetSettingsUseCase_RequiresGuild(t *testing.T) {
	uc := NewGetSettingsUseCase(&mockSettingRepository{}, logger.NewNopLogger())
	_, err := uc.Execute(context.Background(), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestUpdateSettingsUseCase_Execute(t *testing.T) {
	var saved *setting.GuildSettings
	repo := &mockSettingRepository{
		UpsertFunc: func(ctx context.Context, s *setting.GuildSettings) error {
			saved = s
			return nil
		},
	}
	uc := NewUpdateSettingsUseCase(repo, logger.NewNopLogger())

	roles := []string{"111111111111111111", "222222222222222222"}
	maxOpen := 2
	got, err := uc.Execute(context.Background(), "G1", dto.UpdateGuildSettingsRequest{
		StaffRoleIDs:          &roles,
		MaxOpenTicketsPerUser: &maxOpen,
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, roles, got.StaffRoleIDs)
	assert.Equal(t, 2, got.MaxOpenTicketsPerUser)
	assert.True(t, saved.IsStaff([]string{"222222222222222222"}))
}

func TestUpdateSettingsUseCase_ValidationErrors(t *testing.T) {
	bad := []string{"not-a-role"}
	tooMany := 11

	tests := []struct {
		name    string
		request dto.UpdateGuildSettingsRequest
		want    string
	}{
		{"role ids must be snowflakes", dto.UpdateGuildSettingsRequest{StaffRoleIDs: &bad}, "must be a Discord id"},
		{"limit bounded", dto.UpdateGuildSettingsRequest{MaxOpenTicketsPerUser: &tooMany}, "less than or equal to 10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSettingRepository{
				UpsertFunc: func(ctx context.Context, s *setting.GuildSettings) error {
					t.Fatal("upsert must not be called")
					return nil
				},
			}
			uc := NewUpdateSettingsUseCase(repo, logger.NewNopLogger())

			_, err := uc.Execute(context.Background(), "G1", tt.request)
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
